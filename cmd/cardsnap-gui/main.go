package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"cardsnap/internal/api"
	"cardsnap/internal/config"
	"cardsnap/pkg/logger"
	"cardsnap/pkg/models"
	"cardsnap/pkg/updater"
	"cardsnap/pkg/version"
)

var photoExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

type CardSnapGUI struct {
	// Core components
	window        fyne.Window
	log           *logger.Logger
	client        *api.Client
	mutex         sync.Mutex
	logFileName   string
	updateChecker *updater.Checker

	// State
	cards       []models.Card
	currentCard *models.Card

	// UI components
	photoEntry      *widget.Entry
	uploadBtn       *widget.Button
	meetingEntry    *widget.Entry
	prioritiesEntry *widget.Entry
	notesEntry      *widget.Entry
	saveCtxBtn      *widget.Button
	cardsTable      *widget.Table
	detailLabels    map[string]*widget.Label
	portraitLink    *widget.Hyperlink
	progress        *widget.ProgressBarInfinite
	status          *widget.Label
}

func NewCardSnapGUI() *CardSnapGUI {
	log, logFileName, err := setupLogging()
	if err != nil {
		log = logger.New(logger.WithPrefix("[cardsnap-gui] "))
		fmt.Printf("Warning: Failed to set up logging: %v\n", err)
	}

	cardsnapApp := app.New()
	window := cardsnapApp.NewWindow("CardSnap")

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Warn("Error loading config, using defaults: %v", err)
		cfg = &config.Config{APIBaseURL: api.DefaultBaseURL, RequestTimeout: 60}
	}

	client := api.NewClient(cfg.APIBaseURL, log,
		api.WithTimeout(time.Duration(cfg.RequestTimeout)*time.Second))

	return &CardSnapGUI{
		window:        window,
		log:           log,
		client:        client,
		logFileName:   logFileName,
		updateChecker: updater.NewChecker(log),
		detailLabels:  make(map[string]*widget.Label),
	}
}

var detailFields = []string{
	"Name", "Company", "Logo", "Email", "Phone", "Address",
	"Captured", "Context", "Priorities", "Notes",
}

func (gui *CardSnapGUI) setupUI() {
	mainMenu := fyne.NewMainMenu(
		fyne.NewMenu("Help",
			fyne.NewMenuItem("About", func() {
				dialog.ShowInformation(
					"About CardSnap",
					version.GetDetailedVersionInfo(),
					gui.window,
				)
			}),
		),
	)
	gui.window.SetMainMenu(mainMenu)

	// Photo upload form
	gui.photoEntry = widget.NewEntry()
	gui.photoEntry.SetPlaceHolder("Select a business card photo")

	browseBtn := widget.NewButton("Browse", gui.handleBrowse)

	gui.uploadBtn = widget.NewButton("Upload and Extract", gui.handleUpload)
	gui.uploadBtn.Importance = widget.HighImportance

	uploadSection := widget.NewCard("Capture a Card",
		"Upload a photo; the backend extracts the contact details.",
		container.NewVBox(
			container.NewBorder(nil, nil, nil, browseBtn, gui.photoEntry),
			gui.uploadBtn,
		))

	// Card detail pane
	detailRows := container.NewVBox()
	for _, field := range detailFields {
		valueLabel := widget.NewLabel("")
		valueLabel.Wrapping = fyne.TextWrapWord
		gui.detailLabels[field] = valueLabel
		detailRows.Add(container.NewBorder(nil, nil,
			widget.NewLabelWithStyle(field+":", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			nil, valueLabel))
	}

	gui.portraitLink = widget.NewHyperlink("", nil)
	gui.portraitLink.Hide()
	detailRows.Add(container.NewBorder(nil, nil,
		widget.NewLabelWithStyle("Portrait:", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, gui.portraitLink))

	detailSection := widget.NewCard("Card Details", "", detailRows)

	// Meeting context form
	gui.meetingEntry = widget.NewMultiLineEntry()
	gui.meetingEntry.SetPlaceHolder("What was the context of your meeting?")
	gui.prioritiesEntry = widget.NewMultiLineEntry()
	gui.prioritiesEntry.SetPlaceHolder("What are the priorities of that person?")
	gui.notesEntry = widget.NewMultiLineEntry()
	gui.notesEntry.SetPlaceHolder("Personal things or small talk cues.")

	gui.saveCtxBtn = widget.NewButton("Save Context and Generate Portrait", gui.handleSaveContext)
	gui.saveCtxBtn.Importance = widget.HighImportance
	gui.saveCtxBtn.Disable()

	contextSection := widget.NewCard("Meeting Context",
		"Saved context lets the backend generate a summary portrait.",
		container.NewVBox(
			gui.meetingEntry,
			gui.prioritiesEntry,
			gui.notesEntry,
			gui.saveCtxBtn,
		))

	// Captured cards table
	gui.cardsTable = widget.NewTable(
		func() (int, int) {
			gui.mutex.Lock()
			defer gui.mutex.Unlock()
			return len(gui.cards) + 1, 4
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("placeholder text")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			if id.Row == 0 {
				label.TextStyle = fyne.TextStyle{Bold: true}
				label.SetText([]string{"Name", "Company", "Email", "Captured"}[id.Col])
				return
			}

			gui.mutex.Lock()
			defer gui.mutex.Unlock()
			if id.Row-1 >= len(gui.cards) {
				label.SetText("")
				return
			}
			card := gui.cards[id.Row-1]
			label.TextStyle = fyne.TextStyle{}
			switch id.Col {
			case 0:
				label.SetText(card.FullName())
			case 1:
				label.SetText(card.Company)
			case 2:
				label.SetText(card.Email)
			case 3:
				label.SetText(card.CapturedAt)
			}
		},
	)
	gui.cardsTable.SetColumnWidth(0, 180)
	gui.cardsTable.SetColumnWidth(1, 180)
	gui.cardsTable.SetColumnWidth(2, 220)
	gui.cardsTable.SetColumnWidth(3, 200)
	gui.cardsTable.OnSelected = gui.handleRowSelected

	refreshBtn := widget.NewButton("Refresh", gui.handleRefresh)

	tableSection := widget.NewCard("Captured Cards",
		"Select a row to load that card.",
		container.NewBorder(refreshBtn, nil, nil, nil, gui.cardsTable))

	// Progress indicator
	gui.progress = widget.NewProgressBarInfinite()
	gui.progress.Hide()
	gui.status = widget.NewLabel("Ready.")

	left := container.NewVBox(uploadSection, contextSection)
	right := container.NewBorder(detailSection, nil, nil, nil, tableSection)

	content := container.NewBorder(
		nil,
		container.NewVBox(gui.progress, gui.status),
		nil, nil,
		container.NewHSplit(container.NewScroll(left), right),
	)

	gui.window.SetContent(container.NewPadded(content))
	gui.window.Resize(fyne.NewSize(1100, 750))
}

func (gui *CardSnapGUI) handleBrowse() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, gui.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()
		gui.photoEntry.SetText(reader.URI().Path())
	}, gui.window)
	fileDialog.SetFilter(storage.NewExtensionFileFilter(photoExtensions))
	fileDialog.Show()
}

func (gui *CardSnapGUI) handleUpload() {
	photoPath := gui.photoEntry.Text
	if photoPath == "" {
		dialog.ShowError(fmt.Errorf("please select a card photo"), gui.window)
		return
	}
	if _, err := os.Stat(photoPath); err != nil {
		dialog.ShowError(fmt.Errorf("cannot read photo: %v", err), gui.window)
		return
	}

	gui.beginRequest("Uploading card photo...")

	go func() {
		defer gui.endRequest()

		card, err := gui.client.UploadCard(context.Background(), photoPath)
		if err != nil {
			gui.log.Warn("Upload failed: %v", err)
			gui.showError("Could not process the card photo. Please try again.")
			return
		}

		gui.setCurrentCard(card)
		gui.fetchCards()
		gui.updateStatus(fmt.Sprintf("Captured card for %s.", card.FullName()))
	}()
}

func (gui *CardSnapGUI) handleSaveContext() {
	gui.mutex.Lock()
	current := gui.currentCard
	gui.mutex.Unlock()

	if current == nil {
		dialog.ShowError(fmt.Errorf("upload or load a card first"), gui.window)
		return
	}

	cardCtx := models.CardContext{
		MeetingContext: gui.meetingEntry.Text,
		Priorities:     gui.prioritiesEntry.Text,
		PersonalNotes:  gui.notesEntry.Text,
	}

	gui.beginRequest("Saving context and generating portrait...")

	go func() {
		defer gui.endRequest()

		card, err := gui.client.SaveContext(context.Background(), current.ID, cardCtx)
		if err != nil {
			gui.log.Warn("Context save failed: %v", err)
			gui.showError("Could not save the meeting context. Please try again.")
			return
		}

		gui.setCurrentCard(card)
		gui.fetchCards()
		gui.updateStatus(fmt.Sprintf("Context saved; portrait ready for %s.", card.FullName()))
	}()
}

func (gui *CardSnapGUI) handleRefresh() {
	gui.beginRequest("Loading captured cards...")

	go func() {
		defer gui.endRequest()
		gui.fetchCards()
	}()
}

func (gui *CardSnapGUI) handleRowSelected(id widget.TableCellID) {
	gui.cardsTable.UnselectAll()
	if id.Row == 0 {
		return
	}

	gui.mutex.Lock()
	if id.Row-1 >= len(gui.cards) {
		gui.mutex.Unlock()
		return
	}
	cardID := gui.cards[id.Row-1].ID
	gui.mutex.Unlock()

	gui.beginRequest("Loading card...")

	go func() {
		defer gui.endRequest()

		card, err := gui.client.GetCard(context.Background(), cardID)
		if err != nil {
			gui.log.Warn("Card load failed: %v", err)
			gui.showError("Could not load the selected card.")
			return
		}

		gui.setCurrentCard(card)
		gui.updateStatus(fmt.Sprintf("Loaded card for %s.", card.FullName()))
	}()
}

// fetchCards refreshes the table from the backend. Callers run it off the
// main goroutine.
func (gui *CardSnapGUI) fetchCards() {
	cards, err := gui.client.ListCards(context.Background())
	if err != nil {
		gui.log.Warn("List failed: %v", err)
		gui.showError("Could not load the captured cards.")
		return
	}

	gui.mutex.Lock()
	gui.cards = cards
	gui.mutex.Unlock()

	gui.cardsTable.Refresh()
	gui.updateStatus(fmt.Sprintf("%d cards captured.", len(cards)))
}

func (gui *CardSnapGUI) setCurrentCard(card models.Card) {
	gui.mutex.Lock()
	gui.currentCard = &card
	gui.mutex.Unlock()

	gui.detailLabels["Name"].SetText(card.FullName())
	gui.detailLabels["Company"].SetText(card.Company)
	gui.detailLabels["Logo"].SetText(card.CompanyLogoDescription)
	gui.detailLabels["Email"].SetText(card.Email)
	gui.detailLabels["Phone"].SetText(card.Phone)
	gui.detailLabels["Address"].SetText(card.Address)
	gui.detailLabels["Captured"].SetText(card.CapturedAt)
	gui.detailLabels["Context"].SetText(card.MeetingContext)
	gui.detailLabels["Priorities"].SetText(card.Priorities)
	gui.detailLabels["Notes"].SetText(card.PersonalNotes)

	gui.meetingEntry.SetText(card.MeetingContext)
	gui.prioritiesEntry.SetText(card.Priorities)
	gui.notesEntry.SetText(card.PersonalNotes)
	gui.saveCtxBtn.Enable()

	if card.HasSummary() {
		resolved := gui.client.ResolveMediaURL(card.SummaryImageURL)
		if u, err := url.Parse(resolved); err == nil {
			gui.portraitLink.SetText(resolved)
			gui.portraitLink.SetURL(u)
			gui.portraitLink.Show()
		}
	} else {
		gui.portraitLink.SetText("")
		gui.portraitLink.Hide()
	}
}

func (gui *CardSnapGUI) beginRequest(message string) {
	gui.mutex.Lock()
	defer gui.mutex.Unlock()
	gui.progress.Show()
	gui.status.SetText(message)
}

func (gui *CardSnapGUI) endRequest() {
	gui.mutex.Lock()
	defer gui.mutex.Unlock()
	gui.progress.Hide()
}

func (gui *CardSnapGUI) showError(message string) {
	gui.mutex.Lock()
	defer gui.mutex.Unlock()

	notification := fyne.NewNotification("Error", message)
	fyne.CurrentApp().SendNotification(notification)
	gui.status.SetText(message)
}

func (gui *CardSnapGUI) updateStatus(message string) {
	gui.mutex.Lock()
	defer gui.mutex.Unlock()
	gui.status.SetText(message)
}

func setupLogging() (*logger.Logger, string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	logsDir := filepath.Join(homeDir, "cardsnap-logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logFileName := filepath.Join(logsDir, fmt.Sprintf("cardsnap_%s.log", timestamp))

	logFile, err := os.Create(logFileName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, logFile)
	log := logger.New(
		logger.WithPrefix("[cardsnap-gui] "),
		logger.WithOutput(multiWriter),
	)

	return log, logFileName, nil
}

func (gui *CardSnapGUI) startUpdateChecker() {
	go func() {
		time.Sleep(5 * time.Second) // Wait a bit after startup
		gui.checkForUpdates()
	}()

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			gui.checkForUpdates()
		}
	}()
}

func (gui *CardSnapGUI) checkForUpdates() {
	info, err := gui.updateChecker.CheckForUpdates()
	if err != nil {
		gui.log.Debug("Failed to check for updates: %v", err)
		return
	}

	if info != nil && info.IsAvailable {
		message := fmt.Sprintf(
			"A new version of CardSnap is available!\n\n"+
				"Current version: %s\n"+
				"Latest version: %s\n\n"+
				"%s",
			info.CurrentVersion,
			info.LatestVersion,
			info.UpdateMessage,
		)
		dialog.ShowInformation("Update Available", message, gui.window)
	}
}

func (gui *CardSnapGUI) Run() {
	gui.setupUI()

	go func() {
		// Populate the table on startup; failures just leave it empty.
		gui.fetchCards()
	}()

	gui.window.ShowAndRun()
}

func main() {
	gui := NewCardSnapGUI()
	gui.startUpdateChecker()
	gui.Run()
}
