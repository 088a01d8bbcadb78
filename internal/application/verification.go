package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"kwh-verifier/internal/domain/entity"
	"kwh-verifier/internal/domain/port"
)

// CopyMode определяет, какие фото откладываются в папку назначения.
type CopyMode string

const (
	CopyNone     CopyMode = "none"
	CopyNegative CopyMode = "negative" // уверенные NEG
	CopyPassed   CopyMode = "passed"
)

// progressLogEvery — как часто писать прогресс в лог.
const progressLogEvery = 50

// ProgressFunc получает число обработанных фото и их общее количество.
type ProgressFunc func(done, total int)

// VerifyOptions — параметры одного запуска проверки.
type VerifyOptions struct {
	SrcDir      string
	DstDir      string
	Policy      PolicyConfig
	Layout      entity.Layout
	PassOnly    bool // в отчёт попадают только прошедшие фото
	CopyMode    CopyMode
	EmbedImages bool
	ThumbSize   int
}

// VerificationDeps — зависимости конвейера проверки.
type VerificationDeps struct {
	Store       port.PhotoStore
	Decoder     port.ImageDecoder
	Quality     port.QualityAnalyzer
	Classifier  port.Classifier
	Thumbnailer port.Thumbnailer
	Sink        port.ReportSink
	Notifier    port.Notifier
}

// PhotoCheck — результат проверки одного фото.
type PhotoCheck struct {
	Photo          *entity.Photo
	Quality        entity.QualityScore
	Classification entity.ClassificationResult
	Verdict        entity.Verdict
}

type VerificationService struct {
	deps VerificationDeps
	opts VerifyOptions
}

// NewVerificationService создаёт сервис пакетной проверки фото счётчиков.
func NewVerificationService(deps VerificationDeps, opts VerifyOptions) *VerificationService {
	if opts.CopyMode == "" {
		opts.CopyMode = CopyNone
	}
	if opts.Layout == "" {
		opts.Layout = entity.LayoutMinimal
	}
	return &VerificationService{deps: deps, opts: opts}
}

// Run проверяет все фото из SrcDir по очереди и записывает отчёт.
// Ошибка отдельного фото не останавливает задание, ошибка источника или отчёта останавливает.
// При отмене ctx возвращает частичный результат вместе с ошибкой.
func (s *VerificationService) Run(ctx context.Context, progress ProgressFunc) (*entity.JobResult, error) {
	if s.opts.CopyMode != CopyNone && s.opts.DstDir == "" {
		return nil, errors.New("copy mode requires destination directory")
	}

	paths, err := s.deps.Store.List(s.opts.SrcDir)
	if err != nil {
		return nil, err
	}

	result := &entity.JobResult{RunID: uuid.NewString()}
	total := len(paths)
	log.Printf("verify %s: %d photos in %s", result.RunID, total, s.opts.SrcDir)

	var interrupted error
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			interrupted = fmt.Errorf("verification interrupted after %d of %d: %w", i, total, err)
			break
		}

		check, err := s.checkFile(ctx, path)
		if err != nil {
			result.Errors++
			log.Printf("[ERROR] %s: %v", path, err)
		} else {
			s.record(result, check)
		}

		if progress != nil {
			progress(i+1, total)
		}
		if (i+1)%progressLogEvery == 0 {
			log.Printf("progress %d/%d", i+1, total)
		}
	}

	// частичный отчёт пишется и после отмены
	writeCtx := context.WithoutCancel(ctx)
	report := &entity.Report{Layout: s.opts.Layout, Rows: result.Rows}
	out, err := s.deps.Sink.Write(writeCtx, report)
	if err != nil {
		return nil, errors.Join(interrupted, fmt.Errorf("write report: %w", err))
	}
	result.OutputPath = out

	summary := FormatSummary(result)
	log.Print(summary)
	if s.deps.Notifier != nil {
		if err := s.deps.Notifier.Notify(writeCtx, summary); err != nil {
			log.Printf("notify: %v", err)
		}
	}

	return result, interrupted
}

// VerifyPhoto проверяет одно фото, полученное не с диска (например, из чата).
func (s *VerificationService) VerifyPhoto(ctx context.Context, name string, data []byte) (*PhotoCheck, error) {
	photo := &entity.Photo{Path: name, Name: filepath.Base(name), Data: data}
	return s.check(ctx, photo)
}

func (s *VerificationService) checkFile(ctx context.Context, path string) (*PhotoCheck, error) {
	data, err := s.deps.Store.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	photo := &entity.Photo{
		Path:      path,
		Name:      filepath.Base(path),
		ParentDir: filepath.Base(filepath.Dir(path)),
		Data:      data,
	}
	return s.check(ctx, photo)
}

func (s *VerificationService) check(ctx context.Context, photo *entity.Photo) (*PhotoCheck, error) {
	img, err := s.deps.Decoder.Decode(photo.Data)
	if err != nil {
		return nil, err
	}
	photo.Image = img

	policy := s.opts.Policy
	stem := strings.TrimSuffix(photo.Name, filepath.Ext(photo.Name))
	if policy.ExpectedStandLen > 0 {
		photo.Idpel, photo.Stand = ExtractIdpelAndStand(photo.ParentDir, stem, policy.ExpectedIdpelLen)
	} else {
		photo.Idpel = ExtractIdpel(stem, policy.ExpectedIdpelLen)
	}

	score, err := s.deps.Quality.Analyze(ctx, photo)
	if err != nil {
		return nil, fmt.Errorf("quality: %w", err)
	}

	cls, err := s.deps.Classifier.Classify(ctx, photo)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	dir := ""
	if photo.ParentDir != "" {
		dir = filepath.Dir(photo.Path)
	}
	verdict := Decide(DecisionInput{
		Quality:        score,
		Classification: cls,
		Filename:       photo.Name,
		Dir:            dir,
		Idpel:          photo.Idpel,
		Stand:          photo.Stand,
	}, policy)

	return &PhotoCheck{Photo: photo, Quality: score, Classification: cls, Verdict: verdict}, nil
}

func (s *VerificationService) record(result *entity.JobResult, check *PhotoCheck) {
	result.Scanned++
	photo := check.Photo
	if check.Verdict.Pass {
		result.Passed++
		log.Printf("[PASS] %s idpel=%s p=%.2f", photo.Name, photo.Idpel, check.Classification.ValidProb)
	} else {
		result.Failed++
		log.Printf("[FAIL] %s idpel=%s %s", photo.Name, photo.Idpel, check.Verdict.ReasonText())
	}

	copiedTo := ""
	if s.shouldCopy(check) {
		dst, err := s.deps.Store.Copy(photo.Path, s.opts.DstDir)
		if err != nil {
			log.Printf("[ERROR] copy %s: %v", photo.Path, err)
		} else {
			copiedTo = dst
			result.Copied++
		}
	}

	if s.opts.PassOnly && !check.Verdict.Pass {
		return
	}

	row := entity.ReportRow{
		Idpel:        photo.Idpel,
		Stand:        photo.Stand,
		Filename:     photo.Name,
		ValidProb:    check.Classification.ValidProb,
		NegativeProb: check.Classification.NegativeProb,
		Label:        check.Classification.Label,
		Verdict:      check.Verdict,
		CopiedTo:     copiedTo,
		SourcePath:   photo.Path,
	}
	if s.opts.EmbedImages && s.deps.Thumbnailer != nil {
		thumb, err := s.deps.Thumbnailer.Thumbnail(photo.Image, s.opts.ThumbSize)
		if err != nil {
			log.Printf("thumbnail %s: %v", photo.Name, err)
		} else {
			row.Thumbnail = thumb
		}
	}
	result.Rows = append(result.Rows, row)
}

func (s *VerificationService) shouldCopy(check *PhotoCheck) bool {
	switch s.opts.CopyMode {
	case CopyNegative:
		return s.opts.Policy.StrongNegative(check.Classification)
	case CopyPassed:
		return check.Verdict.Pass
	default:
		return false
	}
}

// FormatSummary собирает итог задания в несколько строк.
func FormatSummary(r *entity.JobResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Проверка %s завершена\n", r.RunID)
	fmt.Fprintf(&b, "Проверено: %d\n", r.Scanned)
	fmt.Fprintf(&b, "Прошло: %d\n", r.Passed)
	fmt.Fprintf(&b, "Не прошло: %d\n", r.Failed)
	fmt.Fprintf(&b, "Ошибки: %d\n", r.Errors)
	if r.Copied > 0 {
		fmt.Fprintf(&b, "Скопировано: %d\n", r.Copied)
	}
	fmt.Fprintf(&b, "Успешность: %.1f%%", r.SuccessRate())
	if r.OutputPath != "" {
		fmt.Fprintf(&b, "\nОтчёт: %s", r.OutputPath)
	}
	return b.String()
}
