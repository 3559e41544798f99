// Package memory implementa los puertos de repositorio en memoria.
// Se usa en tests de casos de uso y de la capa HTTP; la semántica sigue a los adaptadores postgres.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
)

// Store datos compartidos por todos los repositorios en memoria.
type Store struct {
	mu         sync.RWMutex
	txMu       sync.Mutex
	users      map[string]*userRow
	categories map[string]*categoryRow
	products   map[string]*productRow
	quotes     map[string]*quoteRow
	posts      map[string]*postRow
	counters   map[string]int64
	seq        int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		users:      map[string]*userRow{},
		categories: map[string]*categoryRow{},
		products:   map[string]*productRow{},
		quotes:     map[string]*quoteRow{},
		posts:      map[string]*postRow{},
		counters:   map[string]int64{},
	}
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Categories repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }

// Products repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Quotes repositorio de cotizaciones.
func (s *Store) Quotes() *QuoteRepo { return &QuoteRepo{s: s} }

// Blog repositorio de posts.
func (s *Store) Blog() *BlogRepo { return &BlogRepo{s: s} }

// sortable fila con orden de inserción y valores comparables por campo.
type sortable interface {
	insertion() int64
	field(name string) (interface{}, bool)
}

// sortRows ordena por sort.Field (createdAt si no se reconoce); a igual valor manda la inserción.
func sortRows[T sortable](rows []T, spec repository.SortSpec) {
	field := spec.Field
	if len(rows) > 0 {
		if _, ok := rows[0].field(field); !ok {
			field = "createdAt"
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, _ := rows[i].field(field)
		b, _ := rows[j].field(field)
		c := compare(a, b)
		if c == 0 {
			c = compare(rows[i].insertion(), rows[j].insertion())
		}
		if spec.Desc {
			return c > 0
		}
		return c < 0
	})
}

func compare(a, b interface{}) int {
	switch x := a.(type) {
	case string:
		return strings.Compare(strings.ToLower(x), strings.ToLower(b.(string)))
	case int:
		y := b.(int)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case int64:
		y := b.(int64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case time.Time:
		return x.Compare(b.(time.Time))
	case float64:
		y := b.(float64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	return 0
}

func paginate[T any](rows []T, page repository.Page) []T {
	if page.Offset >= len(rows) {
		return []T{}
	}
	end := len(rows)
	if page.Limit > 0 && page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}
	return rows[page.Offset:end]
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// matchesWords aproxima la búsqueda de texto completo: todas las palabras deben aparecer.
func matchesWords(query string, fields ...string) bool {
	text := strings.ToLower(strings.Join(fields, " "))
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if !strings.Contains(text, w) {
			return false
		}
	}
	return true
}
