package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tronghieu/ezlib-sub005/internal/circulation"
)

// Registrar is the part of the copy ledger the importer writes through.
type Registrar interface {
	RegisterCopies(ctx context.Context, libraryID, editionID uuid.UUID, count int, placement circulation.Placement) ([]*circulation.Copy, error)
}

// Result summarises an import. Batches before a failing one stay registered.
type Result struct {
	Profile    string
	Batches    int
	Registered []*circulation.Copy
}

type Service struct {
	parser    *Parser
	registrar Registrar
}

func NewService(registrar Registrar) *Service {
	return &Service{
		parser:    NewParser(),
		registrar: registrar,
	}
}

// Import parses the whole file first so a malformed row registers nothing,
// then registers each batch in its own atomic unit.
func (s *Service) Import(ctx context.Context, libraryID uuid.UUID, r io.Reader) (*Result, error) {
	batches, profile, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", circulation.ErrValidation, err)
	}

	res := &Result{Profile: profile}

	for i, b := range batches {
		copies, err := s.registrar.RegisterCopies(ctx, libraryID, b.EditionID, b.Count, circulation.Placement{
			Location:  b.Location,
			Condition: b.Condition,
			Barcodes:  b.Barcodes,
		})
		if err != nil {
			return res, fmt.Errorf("batch %d (edition %s): %w", i+1, b.EditionID, err)
		}

		res.Batches++
		res.Registered = append(res.Registered, copies...)
	}

	slog.Info("inventory imported",
		"library_id", libraryID, "profile", profile, "batches", res.Batches, "copies", len(res.Registered))

	return res, nil
}
