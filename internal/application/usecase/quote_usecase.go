package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
	"github.com/jhoicas/suvenirs-api/pkg/logger"
)

// DefaultQuoteLimit tamaño de página del listado admin.
const DefaultQuoteLimit = 20

// notifyTimeout tiempo máximo del aviso por email; no bloquea la respuesta.
const notifyTimeout = 15 * time.Second

// QuoteUseCase ciclo de vida de las cotizaciones.
type QuoteUseCase struct {
	repo     repository.QuoteRepository
	tx       TxRunner
	notifier QuoteNotifier
	pdf      QuotePDFGenerator
	now      func() time.Time
}

// NewQuoteUseCase construye el caso de uso. notifier y pdf pueden ser nil.
func NewQuoteUseCase(repo repository.QuoteRepository, tx TxRunner, notifier QuoteNotifier, pdf QuotePDFGenerator) *QuoteUseCase {
	return &QuoteUseCase{repo: repo, tx: tx, notifier: notifier, pdf: pdf, now: time.Now}
}

// Create registra una cotización pendiente. Los totales se calculan aquí y el número
// COT-YYMM-NNNN sale del contador atómico del mes.
func (uc *QuoteUseCase) Create(ctx context.Context, in dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	items := toQuoteItems(in.Items)
	if err := entity.ValidateItems(items); err != nil {
		return nil, invalid("%s", err.Error())
	}
	source := strings.TrimSpace(in.Source)
	if source == "" {
		source = entity.QuoteSourceWeb
	}
	if !entity.IsValidQuoteSource(source) {
		return nil, invalid("origen inválido %q", source)
	}
	now := uc.now()
	q := &entity.Quote{
		ID:              uuid.New().String(),
		Items:           items,
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerEmail:   entity.NormalizeEmail(in.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
		CustomerCompany: strings.TrimSpace(in.CustomerCompany),
		Notes:           strings.TrimSpace(in.Notes),
		Status:          entity.QuoteStatusPending,
		Source:          source,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	q.RecalculateTotals()

	// Contador y alta en la misma tx: si el alta falla el número no se consume.
	period := entity.QuotePeriod(now)
	for attempt := 1; ; attempt++ {
		err := uc.tx.RunQuotes(ctx, func(quotes repository.QuoteRepository) error {
			seq, err := quotes.NextSequence(ctx, period)
			if err != nil {
				return err
			}
			q.QuoteNumber = entity.FormatQuoteNumber(period, seq)
			return quotes.Create(ctx, q)
		})
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicate) || attempt == createAttempts {
			return nil, err
		}
	}
	logger.FromContext(ctx).Info().Str("quote_number", q.QuoteNumber).Int("items", q.TotalItems).Str("source", q.Source).Msg("quote created")
	uc.notify(ctx, q)
	return toQuoteResponse(q), nil
}

func (uc *QuoteUseCase) notify(reqCtx context.Context, q *entity.Quote) {
	if uc.notifier == nil {
		return
	}
	snapshot := *q
	l := logger.FromContext(reqCtx)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := uc.notifier.NotifyNewQuote(ctx, &snapshot); err != nil {
			l.Warn().Err(err).Str("quote_number", snapshot.QuoteNumber).Msg("quote notification failed")
		}
	}()
}

// List listado admin con filtro por estado y rango de fechas.
func (uc *QuoteUseCase) List(ctx context.Context, q dto.QuoteListQuery) (*dto.Page[dto.QuoteResponse], error) {
	q.PageRequest = q.PageRequest.Normalize(DefaultQuoteLimit)
	status := strings.TrimSpace(q.Status)
	if status != "" && !entity.IsValidQuoteStatus(status) {
		return nil, invalid("estado inválido %q", status)
	}
	f := repository.QuoteFilter{Status: status, From: q.From, To: q.To}
	list, total, err := uc.repo.List(ctx, f, sortSpec(q.PageRequest, "createdAt"), pageOf(q.PageRequest))
	if err != nil {
		return nil, err
	}
	items := make([]dto.QuoteResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toQuoteResponse(it))
	}
	return &dto.Page[dto.QuoteResponse]{Items: items, Pagination: dto.NewPagination(q.Page, q.Limit, total)}, nil
}

// Get obtiene una cotización.
func (uc *QuoteUseCase) Get(ctx context.Context, id string) (*dto.QuoteResponse, error) {
	q, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(q), nil
}

// Update cambios admin. Si cambian los ítems se recalculan totalItems y totalUnits.
func (uc *QuoteUseCase) Update(ctx context.Context, id string, in dto.UpdateQuoteRequest) (*dto.QuoteResponse, error) {
	q, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Items != nil {
		items := toQuoteItems(*in.Items)
		if err := entity.ValidateItems(items); err != nil {
			return nil, invalid("%s", err.Error())
		}
		q.Items = items
		q.RecalculateTotals()
	}
	if in.QuotedAmount != nil {
		if in.QuotedAmount.IsNegative() {
			return nil, invalid("quotedAmount no puede ser negativo")
		}
		q.QuotedAmount = in.QuotedAmount
	}
	if in.FinalAmount != nil {
		if in.FinalAmount.IsNegative() {
			return nil, invalid("finalAmount no puede ser negativo")
		}
		q.FinalAmount = in.FinalAmount
	}
	if in.CustomerName != nil {
		q.CustomerName = strings.TrimSpace(*in.CustomerName)
	}
	if in.CustomerEmail != nil {
		q.CustomerEmail = entity.NormalizeEmail(*in.CustomerEmail)
	}
	if in.CustomerPhone != nil {
		q.CustomerPhone = strings.TrimSpace(*in.CustomerPhone)
	}
	if in.CustomerCompany != nil {
		q.CustomerCompany = strings.TrimSpace(*in.CustomerCompany)
	}
	if in.Notes != nil {
		q.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Status != nil {
		if !entity.CanTransition(q.Status, *in.Status) {
			return nil, invalid("estado inválido %q", *in.Status)
		}
		q.Status = *in.Status
	}
	if in.Source != nil {
		if !entity.IsValidQuoteSource(*in.Source) {
			return nil, invalid("origen inválido %q", *in.Source)
		}
		q.Source = *in.Source
	}
	q.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, q); err != nil {
		return nil, err
	}
	return toQuoteResponse(q), nil
}

// UpdateStatus cambia solo el estado.
func (uc *QuoteUseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.QuoteResponse, error) {
	q, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	status = strings.TrimSpace(status)
	if !entity.CanTransition(q.Status, status) {
		return nil, invalid("estado inválido %q", status)
	}
	if err := uc.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	q.Status = status
	q.UpdatedAt = uc.now()
	return toQuoteResponse(q), nil
}

// Delete borra la cotización.
func (uc *QuoteUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// Stats total y conteo por estado; las consultas corren en paralelo.
func (uc *QuoteUseCase) Stats(ctx context.Context) (*dto.QuoteStatsResponse, error) {
	counts := make([]int, len(entity.QuoteStatuses)+1)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := uc.repo.Count(gctx, repository.QuoteFilter{})
		counts[0] = n
		return err
	})
	for i, status := range entity.QuoteStatuses {
		i, status := i, status
		g.Go(func() error {
			n, err := uc.repo.Count(gctx, repository.QuoteFilter{Status: status})
			counts[i+1] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("quote stats: %w", err)
	}
	by := make(map[string]int, len(entity.QuoteStatuses))
	for i, status := range entity.QuoteStatuses {
		by[status] = counts[i+1]
	}
	return &dto.QuoteStatsResponse{
		Total:     counts[0],
		Pending:   by[entity.QuoteStatusPending],
		Contacted: by[entity.QuoteStatusContacted],
		Quoted:    by[entity.QuoteStatusQuoted],
		Approved:  by[entity.QuoteStatusApproved],
		Completed: by[entity.QuoteStatusCompleted],
		Rejected:  by[entity.QuoteStatusRejected],
	}, nil
}

// PDF genera el documento de la cotización y el nombre de archivo sugerido.
func (uc *QuoteUseCase) PDF(ctx context.Context, id string) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("%w: generador de PDF no configurado", domain.ErrUnavailable)
	}
	q, err := uc.get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.pdf.GenerateQuotePDF(ctx, q)
	if err != nil {
		return nil, "", fmt.Errorf("generate quote pdf: %w", err)
	}
	return data, q.QuoteNumber + ".pdf", nil
}

func (uc *QuoteUseCase) get(ctx context.Context, id string) (*entity.Quote, error) {
	if !isUUID(id) {
		return nil, notFound("cotización")
	}
	q, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, notFound("cotización")
	}
	return q, nil
}

func toQuoteItems(in []dto.QuoteItemRequest) []entity.QuoteItem {
	items := make([]entity.QuoteItem, 0, len(in))
	for _, it := range in {
		items = append(items, entity.QuoteItem{
			ProductID:   strings.TrimSpace(it.ProductID),
			ProductName: strings.TrimSpace(it.ProductName),
			Quantity:    it.Quantity,
			Description: strings.TrimSpace(it.Description),
		})
	}
	return items
}

// ToQuoteResponse convierte la entidad a su salida JSON.
func ToQuoteResponse(q *entity.Quote) *dto.QuoteResponse { return toQuoteResponse(q) }

func toQuoteResponse(q *entity.Quote) *dto.QuoteResponse {
	items := make([]dto.QuoteItemResponse, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, dto.QuoteItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Description: it.Description,
		})
	}
	return &dto.QuoteResponse{
		ID:              q.ID,
		QuoteNumber:     q.QuoteNumber,
		Items:           items,
		TotalItems:      q.TotalItems,
		TotalUnits:      q.TotalUnits,
		QuotedAmount:    q.QuotedAmount,
		FinalAmount:     q.FinalAmount,
		CustomerName:    q.CustomerName,
		CustomerEmail:   q.CustomerEmail,
		CustomerPhone:   q.CustomerPhone,
		CustomerCompany: q.CustomerCompany,
		Notes:           q.Notes,
		Status:          q.Status,
		Source:          q.Source,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}
