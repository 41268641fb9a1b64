package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"smart_automation/application/planner"
	"smart_automation/application/session"
	"smart_automation/domain/entities"
	"smart_automation/domain/interfaces"
	"smart_automation/infrastructure/ai"
	"smart_automation/infrastructure/browser"
	"smart_automation/infrastructure/storage"
)

type TerminalInterface struct {
	cfg      entities.AutomationConfig
	launcher interfaces.BrowserLauncher
	planner  interfaces.Planner
	history  interfaces.HistoryStore
	logger   *logrus.Logger
	reader   *bufio.Reader
}

func NewTerminalInterface() (*TerminalInterface, error) {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		// .env file is optional
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	// Setup logger
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg := loadConfig()

	// The model collaborator is optional: without an API key the planner
	// runs on its pattern fallback alone.
	var model interfaces.PlanningModel
	client, err := ai.NewClient(logger)
	if err != nil {
		var setupErr *entities.SetupError
		if !errors.As(err, &setupErr) {
			return nil, fmt.Errorf("failed to initialize AI service: %w", err)
		}
		logger.WithField("reason", setupErr.Reason).Warn("model planning disabled, using patterns only")
	} else {
		model = client
	}

	return &TerminalInterface{
		cfg:      cfg,
		launcher: browser.NewLauncher(cfg, logger),
		planner:  planner.NewPlanner(model, logger),
		history:  storage.NewHistoryStore(logger),
		logger:   logger,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// loadConfig applies AUTOMATION_* environment overrides on top of the
// default execution policy.
func loadConfig() entities.AutomationConfig {
	cfg := entities.DefaultConfig()
	if os.Getenv("AUTOMATION_HEADLESS") == "true" {
		cfg.Headless = true
	}
	if v, err := strconv.Atoi(os.Getenv("AUTOMATION_NAV_TIMEOUT_MS")); err == nil && v > 0 {
		cfg.NavigationTimeoutMs = v
	}
	if v, err := strconv.Atoi(os.Getenv("AUTOMATION_SLOWMO_MS")); err == nil && v >= 0 {
		cfg.SlowMoMs = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("AUTOMATION_PACE_SCALE"), 64); err == nil && v > 0 {
		cfg.PaceScale = v
	}
	return cfg
}

func (t *TerminalInterface) Run() error {
	color.New(color.FgCyan, color.Bold).Println("Smart Browser Automation")
	fmt.Println("========================")
	fmt.Println("Type an instruction, 'history' for past runs, 'help' for examples, or 'quit' to exit")
	fmt.Println()

	for {
		fmt.Print("> ")
		input, err := t.reader.ReadString('\n')
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return nil
		case "help":
			t.printHelp()
			continue
		case "history":
			t.printHistory()
			continue
		case "clear":
			fmt.Print("\033[H\033[2J")
			continue
		}

		fmt.Print("Start URL (optional, press Enter to skip): ")
		startURL, err := t.reader.ReadString('\n')
		if err != nil {
			return err
		}
		startURL = strings.TrimSpace(startURL)

		t.execute(input, startURL)
	}
}

// execute runs one instruction in a fresh session, renders the trace and
// records the outcome in the run history.
func (t *TerminalInterface) execute(instruction, startURL string) {
	fmt.Printf("\nRunning: %s\n\n", instruction)

	sess := session.NewSession(t.cfg, t.launcher, t.planner, t.logger)
	started := time.Now()

	trace, err := sess.Run(context.Background(), instruction, startURL)

	fmt.Println()
	renderTrace(trace)
	fmt.Println()

	if err != nil {
		color.Red("Run failed: %v\n", err)
	} else {
		color.Green("Run finished in %s\n", time.Since(started).Round(time.Millisecond))
	}

	record := entities.RunRecord{
		ID:          uuid.NewString()[:8],
		Instruction: instruction,
		StartURL:    startURL,
		StartedAt:   started,
		Duration:    time.Since(started),
		Succeeded:   err == nil,
	}
	if err := t.history.Append(record); err != nil {
		t.logger.WithError(err).Warn("could not persist run record")
	}
}

func renderTrace(trace entities.Trace) {
	for _, entry := range trace {
		switch entities.Severity(entry) {
		case entities.TagOK:
			color.Green("  %s", entry)
		case entities.TagWarn:
			color.Yellow("  %s", entry)
		case entities.TagError:
			color.Red("  %s", entry)
		default:
			fmt.Printf("  %s\n", entry)
		}
	}
}

func (t *TerminalInterface) printHelp() {
	fmt.Println("Example instructions:")
	fmt.Println("  Go to YouTube and search for lo-fi beats")
	fmt.Println("  Go to YouTube, search for cooking tutorials and play the first video")
	fmt.Println("  Search Google for weather in Bangkok")
	fmt.Println("  Go to Amazon and find wireless headphones")
	fmt.Println("  Open example.com")
	fmt.Println()
}

func (t *TerminalInterface) printHistory() {
	records, err := t.history.Load()
	if err != nil {
		color.Red("Could not load history: %v", err)
		return
	}
	if len(records) == 0 {
		fmt.Println("No runs recorded yet")
		return
	}
	for _, r := range records {
		status := color.GreenString("ok")
		if !r.Succeeded {
			status = color.RedString("failed")
		}
		fmt.Printf("  %s  %s  [%s]  %s (%s)\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04"), status, r.Instruction, r.Duration.Round(time.Millisecond))
	}
	fmt.Println()
}

func (t *TerminalInterface) Close() error {
	// Sessions own and release their browser resources; nothing is held here.
	return nil
}
