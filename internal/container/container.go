package container

import (
	"fmt"
	"log"
	"time"

	"kwh-verifier/config"
	app "kwh-verifier/internal/application"
	"kwh-verifier/internal/domain/entity"
	"kwh-verifier/internal/domain/port"
	"kwh-verifier/internal/infrastructure/acmt"
	"kwh-verifier/internal/infrastructure/filesystem"
	"kwh-verifier/internal/infrastructure/notify"
	"kwh-verifier/internal/infrastructure/report"
	"kwh-verifier/internal/infrastructure/spreadsheet"
	"kwh-verifier/internal/infrastructure/storage"
	"kwh-verifier/internal/infrastructure/vision"
)

// ClassifierFactory загружает модель по меткам и параметрам.
type ClassifierFactory func(labels entity.Labels, opts vision.ClassifierOptions) (port.Classifier, error)

type Container struct {
	cfg *config.Config

	SessionService *app.SessionService
	Notifier       port.Notifier

	// NewClassifier подменяется в тестах
	NewClassifier ClassifierFactory

	classifier   port.Classifier
	verification *app.VerificationService
}

func New(cfg *config.Config) (*Container, error) {
	// без уведомлений задание всё равно выполняется
	notifier, err := notify.New(cfg.TelegramToken, cfg.TelegramChatID, cfg.TelegramEndpoint, nil)
	if err != nil {
		log.Printf("notifier disabled: %v", err)
		notifier = notify.Noop{}
	}

	return &Container{
		cfg:            cfg,
		SessionService: app.NewSessionService(storage.NewMemorySessionRepository()),
		Notifier:       notifier,
		NewClassifier:  dnnClassifier,
	}, nil
}

// Verification собирает конвейер проверки. Метки и модель загружаются один раз.
func (c *Container) Verification() (*app.VerificationService, error) {
	if c.verification != nil {
		return c.verification, nil
	}
	v := c.cfg.Verify

	labels, err := vision.LoadLabels(v.LabelsPath, v.ValidMarker)
	if err != nil {
		return nil, err
	}
	sink, err := report.New(v.Format, report.Options{Path: v.OutputPath})
	if err != nil {
		return nil, err
	}
	classifier, err := c.NewClassifier(labels, vision.ClassifierOptions{
		ModelPath: v.ModelPath,
		InputSize: v.InputSize,
		Encoding:  vision.InputEncoding(v.InputDType),
	})
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	c.classifier = classifier

	deps := app.VerificationDeps{
		Store:       filesystem.NewPhotoStore(filesystem.DefaultExtensions),
		Decoder:     vision.NewDecoder(),
		Quality:     vision.NewQualityAnalyzer(),
		Classifier:  classifier,
		Thumbnailer: vision.NewThumbnailer(),
		Sink:        sink,
		Notifier:    c.Notifier,
	}
	c.verification = app.NewVerificationService(deps, VerifyOptions(c.cfg))
	return c.verification, nil
}

// VerifyOptions переводит настройки в параметры запуска проверки.
func VerifyOptions(cfg *config.Config) app.VerifyOptions {
	v := cfg.Verify
	return app.VerifyOptions{
		SrcDir: v.SrcDir,
		DstDir: v.DstDir,
		Policy: app.PolicyConfig{
			Quality: entity.QualityThresholds{
				Blur:       v.BlurThreshold,
				Brightness: v.BrightnessThreshold,
				Contrast:   v.ContrastThreshold,
			},
			NegThreshold:     v.NegThreshold,
			KwhThreshold:     v.KwhThreshold,
			Keywords:         v.Keywords,
			ExpectedIdpelLen: v.ExpectedIdpelLen,
			ExpectedStandLen: v.ExpectedStandLen,
			RequireIdpel:     v.RequireIdpel,
		},
		Layout:   entity.Layout(v.Layout),
		PassOnly: v.PassOnly,
		CopyMode: app.CopyMode(v.CopyMode),
		// миниатюры встраиваются только в xlsx
		EmbedImages: v.EmbedImages && v.Format == "xlsx",
		ThumbSize:   v.ThumbSize,
	}
}

func (c *Container) Download() *app.DownloadService {
	d := c.cfg.Download
	client := acmt.NewClient(nil, acmt.Options{
		PhotoBaseURL: acmt.BaseURL(d.Server),
		Cookie:       d.Cookie,
		PhotoTimeout: time.Duration(d.TimeoutSec) * time.Second,
	})
	return app.NewDownloadService(client, c.Notifier, app.DownloadOptions{
		Input:      d.Input,
		Blth:       d.Blth,
		OutputDir:  d.OutputDir,
		LogDir:     d.LogDir,
		Workers:    d.Workers,
		MaxRetries: d.MaxRetries,
		RetryDelay: time.Duration(d.RetryDelayMs) * time.Millisecond,
	})
}

func (c *Container) DLPD() *app.DLPDService {
	d := c.cfg.DLPD
	client := acmt.NewClient(nil, acmt.Options{ReportBaseURL: acmt.BaseURL(d.Server)})
	return app.NewDLPDService(client, spreadsheet.NewExcel(), app.DLPDOptions{
		Unitap:     d.Unitap,
		Unit:       d.Unit,
		Blth:       d.Blth,
		OutputDir:  d.OutputDir,
		MaxRetries: d.MaxRetries,
		RetryDelay: time.Duration(d.RetryDelayMs) * time.Millisecond,
	})
}

func (c *Container) Filter() *app.FilterService {
	f := c.cfg.Filter
	return app.NewFilterService(spreadsheet.NewExcel(), app.FilterOptions{
		IdsFrom:   f.IdsFrom,
		Input:     f.Input,
		OutputDir: f.OutputDir,
	})
}

// Close освобождает модель.
func (c *Container) Close() error {
	if c.classifier == nil {
		return nil
	}
	return c.classifier.Close()
}

func dnnClassifier(labels entity.Labels, opts vision.ClassifierOptions) (port.Classifier, error) {
	classifier, err := vision.NewDNNClassifier(labels, opts)
	if err != nil {
		return nil, err
	}
	return classifier, nil
}
