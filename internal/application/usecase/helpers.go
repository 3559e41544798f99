package usecase

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
)

// isUUID indica si s es un id válido; ids mal formados se tratan como inexistentes.
func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func notFound(what string) error {
	return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func sortSpec(p dto.PageRequest, defaultField string) repository.SortSpec {
	field := strings.TrimSpace(p.Sort)
	if field == "" {
		field = defaultField
	}
	return repository.SortSpec{Field: field, Desc: p.Desc()}
}

func pageOf(p dto.PageRequest) repository.Page {
	return repository.Page{Limit: p.Limit, Offset: p.Offset()}
}

func boolPtr(b bool) *bool { return &b }
