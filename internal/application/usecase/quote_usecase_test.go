package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
	"github.com/jhoicas/suvenirs-api/internal/infrastructure/memory"
)

// chanNotifier registra los avisos en un canal.
type chanNotifier struct {
	ch  chan string
	err error
}

func (n *chanNotifier) NotifyNewQuote(_ context.Context, q *entity.Quote) error {
	n.ch <- q.QuoteNumber
	return n.err
}

type fakePDF struct{}

func (fakePDF) GenerateQuotePDF(_ context.Context, q *entity.Quote) ([]byte, error) {
	return []byte("%PDF-" + q.QuoteNumber), nil
}

func newQuoteUC(n usecase.QuoteNotifier) (*usecase.QuoteUseCase, *memory.Store) {
	st := memory.NewStore()
	return usecase.NewQuoteUseCase(st.Quotes(), st.TxRunner(), n, fakePDF{}), st
}

func carrito() dto.CreateQuoteRequest {
	return dto.CreateQuoteRequest{
		Items: []dto.QuoteItemRequest{
			{ProductID: "TZ-1", ProductName: "Taza", Quantity: 3},
			{ProductID: "LL-1", ProductName: "Llavero", Quantity: 7},
		},
		CustomerName:  "Juan Soto",
		CustomerEmail: "  Juan.Soto@Empresa.CL ",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateQuote_TotalesYDefaults(t *testing.T) {
	uc, _ := newQuoteUC(nil)
	out, err := uc.Create(context.Background(), carrito())
	require.NoError(t, err)

	assert.Equal(t, 2, out.TotalItems)
	assert.Equal(t, 10, out.TotalUnits)
	assert.Equal(t, entity.QuoteStatusPending, out.Status)
	assert.Equal(t, entity.QuoteSourceWeb, out.Source)
	assert.Equal(t, "juan.soto@empresa.cl", out.CustomerEmail)

	period := entity.QuotePeriod(time.Now())
	assert.Equal(t, "COT-"+period+"-0001", out.QuoteNumber)
}

func TestCreateQuote_SinItems(t *testing.T) {
	uc, st := newQuoteUC(nil)
	in := carrito()
	in.Items = nil

	_, err := uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	n, err := st.Quotes().Count(context.Background(), repositoryAll())
	require.NoError(t, err)
	assert.Equal(t, 0, n, "no se persiste nada")
}

func TestCreateQuote_NumerosUnicosEnParalelo(t *testing.T) {
	uc, _ := newQuoteUC(nil)
	const total = 20

	var (
		mu      sync.Mutex
		numbers = map[string]bool{}
		wg      sync.WaitGroup
	)
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := uc.Create(context.Background(), carrito())
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			numbers[out.QuoteNumber] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, numbers, total, "cada cotización recibe un número distinto")
	period := entity.QuotePeriod(time.Now())
	for i := 1; i <= total; i++ {
		assert.True(t, numbers[fmt.Sprintf("COT-%s-%04d", period, i)], "falta el número %d", i)
	}
}

func TestCreateQuote_ContinuaDesdeElMayorNumeroDelMes(t *testing.T) {
	uc, st := newQuoteUC(nil)
	ctx := context.Background()
	period := entity.QuotePeriod(time.Now())
	for _, seq := range []int64{4, 5, 6} {
		require.NoError(t, st.Quotes().Create(ctx, &entity.Quote{
			ID:          fmt.Sprintf("legacy-%d", seq),
			QuoteNumber: entity.FormatQuoteNumber(period, seq),
			Items:       []entity.QuoteItem{{ProductID: "TZ-1", ProductName: "Taza", Quantity: 1}},
			Status:      entity.QuoteStatusPending,
			Source:      entity.QuoteSourceManual,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}))
	}

	out, err := uc.Create(ctx, carrito())
	require.NoError(t, err, "los números existentes no deben agotar los reintentos")
	assert.Equal(t, "COT-"+period+"-0007", out.QuoteNumber)

	out, err = uc.Create(ctx, carrito())
	require.NoError(t, err)
	assert.Equal(t, "COT-"+period+"-0008", out.QuoteNumber)
}

// failOnceQuotesTx el primer alta dentro de la tx falla con un error de conexión.
type failOnceQuotesTx struct {
	*memory.TxRunner
	failed *bool
}

type failingCreateQuotes struct {
	repository.QuoteRepository
	failed *bool
}

func (f failingCreateQuotes) Create(ctx context.Context, q *entity.Quote) error {
	if !*f.failed {
		*f.failed = true
		return errors.New("conn reset")
	}
	return f.QuoteRepository.Create(ctx, q)
}

func (t failOnceQuotesTx) RunQuotes(ctx context.Context, fn func(repository.QuoteRepository) error) error {
	return t.TxRunner.RunQuotes(ctx, func(q repository.QuoteRepository) error {
		return fn(failingCreateQuotes{QuoteRepository: q, failed: t.failed})
	})
}

func TestCreateQuote_AltaFallidaNoConsumeNumero(t *testing.T) {
	st := memory.NewStore()
	uc := usecase.NewQuoteUseCase(st.Quotes(), failOnceQuotesTx{TxRunner: st.TxRunner(), failed: new(bool)}, nil, nil)
	ctx := context.Background()

	_, err := uc.Create(ctx, carrito())
	require.Error(t, err)

	out, err := uc.Create(ctx, carrito())
	require.NoError(t, err)
	assert.Equal(t, "COT-"+entity.QuotePeriod(time.Now())+"-0001", out.QuoteNumber, "el contador se revierte con la tx")
}

func TestCreateQuote_NotificaSinBloquear(t *testing.T) {
	n := &chanNotifier{ch: make(chan string, 1), err: errors.New("smtp caído")}
	uc, _ := newQuoteUC(n)

	out, err := uc.Create(context.Background(), carrito())
	require.NoError(t, err, "un fallo del aviso no afecta la creación")

	select {
	case got := <-n.ch:
		assert.Equal(t, out.QuoteNumber, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no se envió el aviso de nueva cotización")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / estado / stats
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateQuote_RecalculaTotales(t *testing.T) {
	uc, _ := newQuoteUC(nil)
	ctx := context.Background()
	created, err := uc.Create(ctx, carrito())
	require.NoError(t, err)

	items := []dto.QuoteItemRequest{{ProductID: "GR-1", ProductName: "Gorro", Quantity: 4}}
	quoted := price("45000")
	out, err := uc.Update(ctx, created.ID, dto.UpdateQuoteRequest{Items: &items, QuotedAmount: quoted})
	require.NoError(t, err)
	assert.Equal(t, 1, out.TotalItems)
	assert.Equal(t, 4, out.TotalUnits)
	require.NotNil(t, out.QuotedAmount)
	assert.Equal(t, "45000", out.QuotedAmount.String())
	assert.Equal(t, created.QuoteNumber, out.QuoteNumber, "el número no cambia")
}

func TestUpdateStatus_CualquierEstadoValido(t *testing.T) {
	uc, _ := newQuoteUC(nil)
	ctx := context.Background()
	created, err := uc.Create(ctx, carrito())
	require.NoError(t, err)

	out, err := uc.UpdateStatus(ctx, created.ID, entity.QuoteStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, entity.QuoteStatusCompleted, out.Status)

	out, err = uc.UpdateStatus(ctx, created.ID, entity.QuoteStatusPending)
	require.NoError(t, err, "las transiciones no están restringidas")
	assert.Equal(t, entity.QuoteStatusPending, out.Status)

	_, err = uc.UpdateStatus(ctx, created.ID, "archivada")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStats(t *testing.T) {
	uc, _ := newQuoteUC(nil)
	ctx := context.Background()
	statuses := []string{entity.QuoteStatusPending, entity.QuoteStatusPending, entity.QuoteStatusQuoted, entity.QuoteStatusCompleted}
	for _, s := range statuses {
		q, err := uc.Create(ctx, carrito())
		require.NoError(t, err)
		_, err = uc.UpdateStatus(ctx, q.ID, s)
		require.NoError(t, err)
	}

	stats, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.QuoteStatsResponse{Total: 4, Pending: 2, Quoted: 1, Completed: 1}, *stats)
}

func TestListQuote_FiltroPorEstado(t *testing.T) {
	uc, _ := newQuoteUC(nil)
	ctx := context.Background()
	a, err := uc.Create(ctx, carrito())
	require.NoError(t, err)
	_, err = uc.Create(ctx, carrito())
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, a.ID, entity.QuoteStatusRejected)
	require.NoError(t, err)

	page, err := uc.List(ctx, dto.QuoteListQuery{Status: entity.QuoteStatusRejected})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, a.ID, page.Items[0].ID)

	_, err = uc.List(ctx, dto.QuoteListQuery{Status: "otra"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteYPDF(t *testing.T) {
	uc, _ := newQuoteUC(nil)
	ctx := context.Background()
	q, err := uc.Create(ctx, carrito())
	require.NoError(t, err)

	data, name, err := uc.PDF(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.QuoteNumber+".pdf", name)
	assert.Contains(t, string(data), q.QuoteNumber)

	require.NoError(t, uc.Delete(ctx, q.ID))
	_, err = uc.Get(ctx, q.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
