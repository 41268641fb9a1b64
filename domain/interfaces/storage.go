package interfaces

import "smart_automation/domain/entities"

// HistoryStore persists the record of past automation runs for the
// presentation layer's history view.
type HistoryStore interface {
	Append(record entities.RunRecord) error
	Load() ([]entities.RunRecord, error)
}
