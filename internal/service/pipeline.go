package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/court-vision/internal/datasource"
)

// Pipeline chains the odds fetch and the batch analysis into the daily
// job the daemon schedules: fetch today's props, snapshot them to disk
// and analyze the snapshot into the CSV report.
type Pipeline struct {
	odds       datasource.OddsProvider
	batch      *BatchService
	validator  *DocumentValidator
	propsPath  string
	outputPath string
	logger     *logrus.Logger
}

// NewPipeline creates the fetch-then-analyze pipeline
func NewPipeline(odds datasource.OddsProvider, batch *BatchService, propsPath, outputPath string, baseLogger *logrus.Logger) *Pipeline {
	return &Pipeline{
		odds:       odds,
		batch:      batch,
		validator:  NewDocumentValidator(baseLogger),
		propsPath:  propsPath,
		outputPath: outputPath,
		logger:     baseLogger,
	}
}

// Execute runs one full pipeline pass. The props snapshot is written
// before analysis so a failed run can be replayed from disk.
func (p *Pipeline) Execute(ctx context.Context) error {
	doc, err := p.odds.FetchDocument(ctx)
	if err != nil {
		return fmt.Errorf("fetching props: %w", err)
	}

	if err := doc.Save(p.propsPath); err != nil {
		return fmt.Errorf("saving props document: %w", err)
	}
	p.logger.Infof("Saved %d events to %s", doc.Len(), p.propsPath)

	if problems := p.validator.ValidateDocument(doc); problems > 0 {
		p.logger.Warnf("Document has %d problems; affected entries will be skipped", problems)
	}

	rows, err := p.batch.Run(ctx, doc)
	if err != nil {
		return err
	}

	if err := WriteCSVReport(rows, p.outputPath); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	p.logger.Infof("Wrote %d rows to %s", len(rows), p.outputPath)

	return nil
}
