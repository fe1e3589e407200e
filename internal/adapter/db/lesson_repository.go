package db

import (
	"context"
	stdsql "database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/lessonmap/internal/core"
)

// LessonRepository persists lessons using Ent's SQL dialect builders.
// Calls join the transaction carried by the context, if any.
type LessonRepository struct {
	drv dialect.Driver
}

// NewLessonRepository constructs an Ent-backed lesson repository.
func NewLessonRepository(drv *entsql.Driver) *LessonRepository {
	return &LessonRepository{drv: drv}
}

var _ core.LessonRepository = (*LessonRepository)(nil)

// Create inserts a new lesson row.
func (r *LessonRepository) Create(ctx context.Context, lesson core.Lesson) (*core.Lesson, error) {
	query, args := entsql.Dialect(r.drv.Dialect()).
		Insert(lessonsTable).
		Columns(lessonColumns...).
		Values(
			lesson.ID,
			lesson.Title,
			lesson.Description,
			lesson.Address,
			lesson.Location.Lat,
			lesson.Location.Lng,
			lesson.Image,
			lesson.CreatorID,
			lesson.CreatedAt,
			lesson.UpdatedAt,
		).
		Query()

	if err := conn(ctx, r.drv).Exec(ctx, query, args, nil); err != nil {
		return nil, storeError(err)
	}

	created := lesson
	return &created, nil
}

// Get fetches a lesson by id.
func (r *LessonRepository) Get(ctx context.Context, id uuid.UUID) (*core.Lesson, error) {
	lessons, err := queryLessons(ctx, r.drv, entsql.EQ("id", id))
	if err != nil {
		return nil, err
	}
	if len(lessons) == 0 {
		return nil, core.ErrNotFound
	}
	return &lessons[0], nil
}

// GetWithCreator fetches a lesson together with the user that created it.
func (r *LessonRepository) GetWithCreator(ctx context.Context, id uuid.UUID) (*core.Lesson, *core.User, error) {
	lesson, err := r.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	creator, err := getUser(ctx, r.drv, lesson.CreatorID, false)
	if err != nil {
		return nil, nil, err
	}
	return lesson, creator, nil
}

// ListByIDs returns the lessons matching the ids, oldest first.
func (r *LessonRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]core.Lesson, error) {
	return listLessonsByIDs(ctx, r.drv, ids)
}

// Update overwrites the mutable lesson attributes.
func (r *LessonRepository) Update(ctx context.Context, lesson core.Lesson) (*core.Lesson, error) {
	query, args := entsql.Dialect(r.drv.Dialect()).
		Update(lessonsTable).
		Set("title", lesson.Title).
		Set("description", lesson.Description).
		Set("updated_at", lesson.UpdatedAt).
		Where(entsql.EQ("id", lesson.ID)).
		Query()

	if err := execAffectingOne(ctx, conn(ctx, r.drv), query, args); err != nil {
		return nil, err
	}
	return r.Get(ctx, lesson.ID)
}

// Delete removes a lesson by id.
func (r *LessonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args := entsql.Dialect(r.drv.Dialect()).
		Delete(lessonsTable).
		Where(entsql.EQ("id", id)).
		Query()

	return execAffectingOne(ctx, conn(ctx, r.drv), query, args)
}

func listLessonsByIDs(ctx context.Context, drv dialect.Driver, ids []uuid.UUID) ([]core.Lesson, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := lo.Map(lo.Uniq(ids), func(id uuid.UUID, _ int) any { return id })
	return queryLessons(ctx, drv, entsql.In("id", args...))
}

func queryLessons(ctx context.Context, drv dialect.Driver, where *entsql.Predicate) ([]core.Lesson, error) {
	b := entsql.Dialect(drv.Dialect())
	query, args := b.Select(lessonColumns...).
		From(b.Table(lessonsTable)).
		Where(where).
		OrderBy("created_at", "id").
		Query()

	rows := &entsql.Rows{}
	if err := conn(ctx, drv).Query(ctx, query, args, rows); err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	var lessons []core.Lesson
	for rows.Next() {
		var l core.Lesson
		if err := rows.Scan(
			&l.ID,
			&l.Title,
			&l.Description,
			&l.Address,
			&l.Location.Lat,
			&l.Location.Lng,
			&l.Image,
			&l.CreatorID,
			&l.CreatedAt,
			&l.UpdatedAt,
		); err != nil {
			return nil, storeError(err)
		}
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err)
	}
	return lessons, nil
}

func execAffectingOne(ctx context.Context, ex dialect.ExecQuerier, query string, args []any) error {
	var res stdsql.Result
	if err := ex.Exec(ctx, query, args, &res); err != nil {
		return storeError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeError(err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func storeError(err error) error {
	return fmt.Errorf("%w: %v", core.ErrStore, err)
}
