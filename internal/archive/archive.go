package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nmcnair22/billscan/internal/model"
)

// Archiver files processed bills: valid bills go to the archive directory,
// invalid ones to the audit directory, and the combined extraction output
// is written as JSON either way. The source file is removed after a
// successful copy.
type Archiver struct {
	archiveDir string
	auditDir   string
	outputDir  string
	logger     *logrus.Logger
}

func NewArchiver(archiveDir, auditDir, outputDir string, logger *logrus.Logger) *Archiver {
	if logger == nil {
		logger = logrus.New()
	}
	return &Archiver{
		archiveDir: archiveDir,
		auditDir:   auditDir,
		outputDir:  outputDir,
		logger:     logger,
	}
}

// Record is the combined JSON written for each processed bill
type Record struct {
	RunID            string                   `json:"run_id"`
	BillType         model.BillType           `json:"bill_type,omitempty"`
	ExtractedData    interface{}              `json:"extracted_data"`
	ValidationResult *model.ValidationOutcome `json:"validation_result"`
}

// Result reports where the bill and its data ended up
type Result struct {
	DocumentPath string
	DataPath     string
	RunID        string
}

// Archive files one processed bill. extracted is the ExtractionResult or
// SLBResult produced by the pipeline.
func (a *Archiver) Archive(documentPath string, extracted interface{}, outcome *model.ValidationOutcome, billType model.BillType) (*Result, error) {
	if _, err := os.Stat(documentPath); err != nil {
		return nil, fmt.Errorf("document not found: %s", documentPath)
	}
	for _, dir := range []string{a.archiveDir, a.auditDir, a.outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	targetDir := a.auditDir
	if outcome != nil && outcome.Valid {
		targetDir = a.archiveDir
	}

	name := filepath.Base(documentPath)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	targetPath := filepath.Join(targetDir, name)
	dataPath := filepath.Join(a.outputDir, base+"_output.json")

	if err := copyFile(documentPath, targetPath); err != nil {
		return nil, fmt.Errorf("copy document: %w", err)
	}

	runID := uuid.NewString()
	record := Record{
		RunID:            runID,
		BillType:         billType,
		ExtractedData:    extracted,
		ValidationResult: outcome,
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal archive record: %w", err)
	}
	if err := os.WriteFile(dataPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write archive record: %w", err)
	}

	if err := os.Remove(documentPath); err != nil {
		return nil, fmt.Errorf("remove source document: %w", err)
	}

	a.logger.WithFields(logrus.Fields{
		"run_id":   runID,
		"document": targetPath,
		"data":     dataPath,
	}).Info("bill archived")
	return &Result{DocumentPath: targetPath, DataPath: dataPath, RunID: runID}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
