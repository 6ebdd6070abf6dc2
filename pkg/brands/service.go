package brands

import (
	"context"
	"database/sql"
	"slices"
	"strings"
	"time"

	"github.com/brandkeep/brandkeep/pkg/errcodes"
	"github.com/brandkeep/brandkeep/pkg/i18n"
	"github.com/brandkeep/brandkeep/pkg/models"
	"github.com/brandkeep/brandkeep/pkg/pagination"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"
)

var sortable = pagination.Sortable{
	"name":       "b.name COLLATE NOCASE",
	"created_at": "b.created_at",
	"updated_at": "b.updated_at",
}

// BrandSummary is what a brand search returns per match.
type BrandSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toSummary(b *models.Brand) BrandSummary {
	return BrandSummary{ID: b.ID, Name: b.Name, Description: b.Description}
}

type SearchBrandsOptions struct {
	pagination.Filter
	// Name restricts the search to brands whose name contains it.
	Name string
}

type CreateBrandOptions struct {
	Name        string
	Description string
}

type UpdateBrandOptions struct {
	Columns []string
}

type Service struct {
	db        *bun.DB
	localizer *i18n.Localizer
}

func NewService(db *bun.DB, localizer *i18n.Localizer) *Service {
	return &Service{db, localizer}
}

// Search returns one page of brands matching opts, ordered by name unless
// opts asks otherwise, along with the number of matches across all pages.
func (svc *Service) Search(ctx context.Context, opts SearchBrandsOptions) (*pagination.Page[BrandSummary], error) {
	orders, err := pagination.ParseOrderBy(opts.OrderBy, sortable, "name")
	if err != nil {
		return nil, err
	}

	filter := func(q *bun.SelectQuery) *bun.SelectQuery {
		if opts.Keyword != "" {
			search := containsPattern(opts.Keyword)
			q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Where("LOWER(b.name) LIKE ? ESCAPE '\\'", search).
					WhereOr("LOWER(b.description) LIKE ? ESCAPE '\\'", search)
			})
		}
		if opts.Name != "" {
			q = q.Where("LOWER(b.name) LIKE ? ESCAPE '\\'", containsPattern(opts.Name))
		}
		return q
	}

	var brands []*models.Brand
	var total int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q := svc.db.NewSelect().
			Model(&brands).
			Apply(filter)
		for _, o := range orders {
			q = q.OrderExpr(o)
		}
		// Keeps pages stable when names repeat.
		q = q.OrderExpr("b.id ASC")
		return errors.WithStack(pagination.Apply(q, opts.Filter).Scan(gctx))
	})
	g.Go(func() error {
		n, err := svc.db.NewSelect().
			Model((*models.Brand)(nil)).
			Apply(filter).
			Count(gctx)
		total = n
		return errors.WithStack(err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return pagination.Map(pagination.NewPage(brands, total, opts.Filter), toSummary), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern builds a LIKE pattern matching s anywhere in a lowercased
// column, with s's own wildcards taken literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func (svc *Service) CreateBrand(ctx context.Context, opts CreateBrandOptions) (*models.Brand, error) {
	now := time.Now()
	brand := &models.Brand{
		ID:          uuid.NewString(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        strings.TrimSpace(opts.Name),
		Description: opts.Description,
	}

	_, err := svc.db.
		NewInsert().
		Model(brand).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("brand created", logger.Data{"brand_id": brand.ID, "name": brand.Name})
	return brand, nil
}

func (svc *Service) RetrieveBrand(ctx context.Context, id string) (*models.Brand, error) {
	brand := &models.Brand{}

	err := svc.db.
		NewSelect().
		Model(brand).
		Where("b.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound(svc.localizer.T(ctx, i18n.BrandNotFound))
		}
		return nil, errors.WithStack(err)
	}

	return brand, nil
}

func (svc *Service) UpdateBrand(ctx context.Context, brand *models.Brand, opts UpdateBrandOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	brand.UpdatedAt = time.Now()
	columns := slices.Concat(opts.Columns, []string{"updated_at"})

	res, err := svc.db.
		NewUpdate().
		Model(brand).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound(svc.localizer.T(ctx, i18n.BrandNotFound))
	}
	return nil
}

func (svc *Service) DeleteBrand(ctx context.Context, id string) error {
	res, err := svc.db.NewDelete().
		Model((*models.Brand)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound(svc.localizer.T(ctx, i18n.BrandNotFound))
	}

	logger.FromContext(ctx).Info("brand deleted", logger.Data{"brand_id": id})
	return nil
}
