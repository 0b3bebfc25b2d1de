package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"cardsnap/internal/api"
	"cardsnap/internal/config"
	"cardsnap/internal/scanbatch"
	"cardsnap/internal/scanner"
	"cardsnap/internal/watch"
	"cardsnap/pkg/logger"
	"cardsnap/pkg/models"
	"cardsnap/pkg/utils"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	photoDir := flag.String("photo-dir", "", "directory containing card photos (overrides config)")
	pdfPath := flag.String("pdf", "", "scan-sheet PDF to extract card pages from and upload")
	watchMode := flag.Bool("watch", false, "watch the photo directory and upload new photos")
	listCards := flag.Bool("list", false, "list captured cards")
	showID := flag.String("show", "", "fetch and print one card by id")
	contextID := flag.String("context", "", "card id to submit meeting context for")
	meeting := flag.String("meeting", "", "meeting context text (with -context)")
	priorities := flag.String("priorities", "", "priorities text (with -context)")
	notes := flag.String("notes", "", "personal notes text (with -context)")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	debug := flag.Bool("debug", false, "enable debug mode with trace logging")
	flag.Parse()

	log := logger.New(logger.WithPrefix("[cardsnap] "))
	log.SetVerbose(*verbose)

	if *debug {
		log.SetLevel(logger.LevelTrace)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Error loading config: %v", err)
	}

	if *photoDir != "" {
		cfg.PhotoSourceDir = *photoDir
	}

	client := api.NewClient(cfg.APIBaseURL, log,
		api.WithTimeout(time.Duration(cfg.RequestTimeout)*time.Second))

	ctx := context.Background()

	log.Debug("Checking backend connection...")
	if err := client.CheckConnection(ctx); err != nil {
		log.Fatal("Backend connection error: %v", err)
	}
	log.Debug("Backend reachable at %s", client.BaseURL())

	switch {
	case *listCards:
		runList(ctx, client, log)
	case *showID != "":
		runShow(ctx, client, log, *showID)
	case *contextID != "":
		runContext(ctx, client, log, *contextID, models.CardContext{
			MeetingContext: *meeting,
			Priorities:     *priorities,
			PersonalNotes:  *notes,
		})
	case *pdfPath != "":
		runPDFBatch(ctx, client, log, *pdfPath)
	case *watchMode:
		runWatch(ctx, client, log, cfg)
	default:
		runBatch(ctx, client, log, cfg.PhotoSourceDir)
	}
}

func runBatch(ctx context.Context, client *api.Client, log *logger.Logger, dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Fatal("Photo directory does not exist: %s", dir)
	}

	dirScanner := scanner.New(log)

	log.Info("Scanning directory: %s", dir)
	photos, err := dirScanner.FindPhotos(ctx, dir)
	if err != nil {
		log.Fatal("Error finding photos: %v", err)
	}

	log.Info("Found %d photos to upload", len(photos))

	report := &api.UploadReport{StartTime: time.Now()}
	seen := make(map[string]string)

	for _, photo := range photos {
		report.ProcessedCount++

		hash, err := utils.FileHash(photo.AbsolutePath)
		if err != nil {
			log.Warn("Error hashing %s: %v", photo.RelativePath, err)
			report.FailedCount++
			continue
		}
		if dup, ok := seen[hash]; ok {
			log.Info("Skipping %s: identical to %s", photo.RelativePath, dup)
			report.AddSkipped(photo.RelativePath, "duplicate of "+dup)
			continue
		}
		seen[hash] = photo.RelativePath

		card, err := client.UploadCard(ctx, photo.AbsolutePath)
		if err != nil {
			log.Warn("Error uploading %s: %v", photo.RelativePath, err)
			report.FailedCount++
			continue
		}

		report.UploadedCount++
		log.Info("Captured card %s: %s (%s)", card.ID, card.FullName(), card.Company)
	}

	report.EndTime = time.Now()
	report.Print(log)
}

func runPDFBatch(ctx context.Context, client *api.Client, log *logger.Logger, pdfPath string) {
	extractor, err := scanbatch.NewExtractor(filepath.Join(os.TempDir(), "cardsnap-temp"), log)
	if err != nil {
		log.Fatal("Error initializing extractor: %v", err)
	}
	defer extractor.Cleanup()

	pages, err := extractor.ExtractPages(ctx, pdfPath)
	if err != nil {
		log.Fatal("Error extracting pages from %s: %v", pdfPath, err)
	}

	report := &api.UploadReport{StartTime: time.Now()}

	for _, page := range pages {
		report.ProcessedCount++

		card, err := client.UploadCard(ctx, page)
		if err != nil {
			log.Warn("Error uploading %s: %v", filepath.Base(page), err)
			report.FailedCount++
			continue
		}

		report.UploadedCount++
		log.Info("Captured card %s: %s (%s)", card.ID, card.FullName(), card.Company)
	}

	report.EndTime = time.Now()
	report.Print(log)
}

func runWatch(ctx context.Context, client *api.Client, log *logger.Logger, cfg *config.Config) {
	if _, err := os.Stat(cfg.PhotoSourceDir); os.IsNotExist(err) {
		log.Fatal("Photo directory does not exist: %s", cfg.PhotoSourceDir)
	}

	upload := func(ctx context.Context, path string) {
		card, err := client.UploadCard(ctx, path)
		if err != nil {
			log.Warn("Error uploading %s: %v", path, err)
			return
		}
		log.Info("Captured card %s: %s (%s)", card.ID, card.FullName(), card.Company)
	}

	watcher, err := watch.New(cfg.PhotoSourceDir,
		time.Duration(cfg.WatchDebounce)*time.Millisecond, upload, log)
	if err != nil {
		log.Fatal("Error initializing watcher: %v", err)
	}

	if err := watcher.Start(ctx); err != nil {
		log.Fatal("Error starting watcher: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down watcher...")
	watcher.Stop()
}

func runList(ctx context.Context, client *api.Client, log *logger.Logger) {
	cards, err := client.ListCards(ctx)
	if err != nil {
		log.Fatal("Error listing cards: %v", err)
	}

	log.Info("%d cards captured", len(cards))
	for _, card := range cards {
		summary := ""
		if card.HasSummary() {
			summary = " [portrait]"
		}
		log.Info("- %s  %-24s %-20s %s%s", card.ID, card.FullName(), card.Company, card.CapturedAt, summary)
	}
}

func runShow(ctx context.Context, client *api.Client, log *logger.Logger, cardID string) {
	card, err := client.GetCard(ctx, cardID)
	if err != nil {
		log.Fatal("Error fetching card %s: %v", cardID, err)
	}

	printCard(client, log, card)
}

func runContext(ctx context.Context, client *api.Client, log *logger.Logger, cardID string, cardCtx models.CardContext) {
	log.Info("Submitting context for card %s (the backend will generate a summary portrait)...", cardID)

	card, err := client.SaveContext(ctx, cardID, cardCtx)
	if err != nil {
		log.Fatal("Error saving context for %s: %v", cardID, err)
	}

	printCard(client, log, card)
}

func printCard(client *api.Client, log *logger.Logger, card models.Card) {
	log.Info("Card %s", card.ID)
	log.Info("- Name:        %s", card.FullName())
	log.Info("- Company:     %s", card.Company)
	log.Info("- Logo:        %s", card.CompanyLogoDescription)
	log.Info("- Email:       %s", card.Email)
	log.Info("- Phone:       %s", card.Phone)
	log.Info("- Address:     %s", card.Address)
	log.Info("- Captured:    %s", card.CapturedAt)
	log.Info("- Context:     %s", card.MeetingContext)
	log.Info("- Priorities:  %s", card.Priorities)
	log.Info("- Notes:       %s", card.PersonalNotes)
	if card.SourceImageURL != "" {
		log.Info("- Photo:       %s", client.ResolveMediaURL(card.SourceImageURL))
	}
	if card.HasSummary() {
		log.Info("- Portrait:    %s", client.ResolveMediaURL(card.SummaryImageURL))
	}
}
