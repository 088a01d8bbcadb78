package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"kwh-verifier/config"
	telegram "kwh-verifier/internal/api"
	app "kwh-verifier/internal/application"
	"kwh-verifier/internal/container"
)

const usage = `Usage: kwh-verifier <command> [flags]

Commands:
  verify    проверить фото счётчиков и записать отчёт
  split     разбить список idpel на части
  download  скачать фото из ACMT по списку idpel
  dlpd      скачать и склеить выгрузку DLPD
  filter    оставить в таблице только прошедшие проверку idpel
  bot       запустить Telegram-бота

Run "kwh-verifier <command> -h" for command flags.`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "verify":
		err = runVerify(ctx, cfg, args)
	case "split":
		err = runSplit(cfg, args)
	case "download":
		err = runDownload(ctx, cfg, args)
	case "dlpd":
		err = runDLPD(ctx, cfg, args)
	case "filter":
		err = runFilter(ctx, cfg, args)
	case "bot":
		err = runBot(ctx, cfg, args)
	case "-h", "--help", "help":
		fmt.Println(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

// parse разбирает флаги поверх загруженной конфигурации и проверяет результат.
func parse(fs *flag.FlagSet, cfg *config.Config, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	return cfg.Validate()
}

func runVerify(ctx context.Context, cfg *config.Config, args []string) error {
	v := &cfg.Verify
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	fs.StringVar(&v.ModelPath, "model", v.ModelPath, "файл модели (tflite, onnx, pb)")
	fs.StringVar(&v.LabelsPath, "labels", v.LabelsPath, "файл меток модели")
	fs.StringVar(&v.SrcDir, "src", v.SrcDir, "папка с фото")
	fs.StringVar(&v.DstDir, "dst", v.DstDir, "папка для отложенных фото")
	fs.StringVar(&v.OutputPath, "output", v.OutputPath, "файл отчёта")
	fs.StringVar(&v.Format, "format", v.Format, "формат отчёта: xlsx, csv, json, txt")
	fs.StringVar(&v.Layout, "layout", v.Layout, "колонки отчёта: minimal или extended")
	fs.StringVar(&v.CopyMode, "copy", v.CopyMode, "какие фото копировать в dst: none, negative, passed")
	fs.BoolVar(&v.PassOnly, "pass-only", v.PassOnly, "писать в отчёт только прошедшие фото")
	fs.Float64Var(&v.NegThreshold, "neg-threshold", v.NegThreshold, "порог уверенного NEG")
	fs.Float64Var(&v.KwhThreshold, "kwh-threshold", v.KwhThreshold, "минимальная уверенность KWH")
	fs.Float64Var(&v.BlurThreshold, "blur-threshold", v.BlurThreshold, "минимальная резкость")
	fs.Float64Var(&v.BrightnessThreshold, "brightness-threshold", v.BrightnessThreshold, "минимальная яркость")
	fs.Float64Var(&v.ContrastThreshold, "contrast-threshold", v.ContrastThreshold, "минимальный контраст")
	fs.IntVar(&v.ExpectedIdpelLen, "expected-idpel-len", v.ExpectedIdpelLen, "ожидаемая длина idpel, 0 — без проверки")
	fs.IntVar(&v.ExpectedStandLen, "expected-stand-len", v.ExpectedStandLen, "ожидаемая длина показания, 0 — без проверки")
	fs.BoolVar(&v.RequireIdpel, "require-idpel", v.RequireIdpel, "фото без idpel не проходит")
	keywords := fs.String("keywords", strings.Join(v.Keywords, ","), "слова-исключения через запятую")
	fs.BoolVar(&v.EmbedImages, "images", v.EmbedImages, "встраивать миниатюры в xlsx")
	fs.IntVar(&v.ThumbSize, "thumb-size", v.ThumbSize, "большая сторона миниатюры, px")
	fs.IntVar(&v.InputSize, "input-size", v.InputSize, "сторона входа модели, px")
	fs.StringVar(&v.InputDType, "input-dtype", v.InputDType, "тип входа модели: float32 или uint8")
	if err := parse(fs, cfg, args); err != nil {
		return err
	}
	v.Keywords = config.SplitList(*keywords)

	c, err := container.New(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	svc, err := c.Verification()
	if err != nil {
		return err
	}
	_, err = svc.Run(ctx, nil)
	return err
}

func runSplit(cfg *config.Config, args []string) error {
	s := &cfg.Split
	fs := flag.NewFlagSet("split", flag.ExitOnError)
	fs.StringVar(&s.Input, "input", s.Input, "файл со списком idpel")
	fs.StringVar(&s.OutputDir, "output-dir", s.OutputDir, "папка для частей")
	fs.IntVar(&s.LinesPerFile, "lines", s.LinesPerFile, "строк в одной части")
	if err := parse(fs, cfg, args); err != nil {
		return err
	}

	_, err := app.SplitIdpelFile(s.Input, s.OutputDir, s.LinesPerFile)
	return err
}

func runDownload(ctx context.Context, cfg *config.Config, args []string) error {
	d := &cfg.Download
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	fs.StringVar(&d.Server, "server", d.Server, "сервер ACMT")
	fs.StringVar(&d.Blth, "blth", d.Blth, "период YYYYMM")
	fs.StringVar(&d.Cookie, "cookie", d.Cookie, "cookie авторизованной сессии")
	fs.StringVar(&d.Input, "input", d.Input, "файл со списком idpel")
	fs.StringVar(&d.OutputDir, "output-dir", d.OutputDir, "папка для фото")
	fs.StringVar(&d.LogDir, "log-dir", d.LogDir, "папка для списка неудачных idpel")
	fs.IntVar(&d.Workers, "workers", d.Workers, "параллельных загрузок")
	fs.IntVar(&d.MaxRetries, "retries", d.MaxRetries, "попыток на одно фото")
	if err := parse(fs, cfg, args); err != nil {
		return err
	}
	if d.Input == "" {
		return errors.New("-input is required")
	}

	c, err := container.New(cfg)
	if err != nil {
		return err
	}
	_, err = c.Download().Run(ctx, nil)
	return err
}

func runDLPD(ctx context.Context, cfg *config.Config, args []string) error {
	d := &cfg.DLPD
	fs := flag.NewFlagSet("dlpd", flag.ExitOnError)
	fs.StringVar(&d.Server, "server", d.Server, "адрес сервера BIRT")
	fs.StringVar(&d.Blth, "blth", d.Blth, "период YYYYMM")
	fs.StringVar(&d.Unitap, "unitap", d.Unitap, "код UNITAP")
	fs.StringVar(&d.Unit, "unit", d.Unit, "один UP, пусто — все UP из UNITAP")
	fs.StringVar(&d.OutputDir, "output-dir", d.OutputDir, "папка для результата")
	if err := parse(fs, cfg, args); err != nil {
		return err
	}

	c, err := container.New(cfg)
	if err != nil {
		return err
	}
	_, err = c.DLPD().Run(ctx)
	return err
}

func runFilter(ctx context.Context, cfg *config.Config, args []string) error {
	f := &cfg.Filter
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.StringVar(&f.IdsFrom, "ids-from", f.IdsFrom, "папка с фото или файл отчёта")
	fs.StringVar(&f.Input, "input", f.Input, "таблица для фильтрации")
	fs.StringVar(&f.OutputDir, "output-dir", f.OutputDir, "папка для результата")
	if err := parse(fs, cfg, args); err != nil {
		return err
	}
	if f.Input == "" {
		return errors.New("-input is required")
	}

	c, err := container.New(cfg)
	if err != nil {
		return err
	}
	_, err = c.Filter().Run(ctx)
	return err
}

func runBot(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("bot", flag.ExitOnError)
	if err := parse(fs, cfg, args); err != nil {
		return err
	}
	if cfg.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}

	appContainer, err := container.New(cfg)
	if err != nil {
		return err
	}
	defer appContainer.Close()

	verification, err := appContainer.Verification()
	if err != nil {
		return err
	}

	api, err := telegram.Connect(cfg.TelegramToken)
	if err != nil {
		return err
	}
	bot := telegram.NewBot(api, appContainer.SessionService, verification)

	log.Println("Bot is running...")
	return bot.Run(ctx)
}
