package db

import (
	"context"
	"encoding/json"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/eslsoft/lessonmap/internal/core"
)

// UserRepository persists users and their lesson back-references.
type UserRepository struct {
	drv dialect.Driver
}

// NewUserRepository constructs an Ent-backed user repository.
func NewUserRepository(drv *entsql.Driver) *UserRepository {
	return &UserRepository{drv: drv}
}

var _ core.UserRepository = (*UserRepository)(nil)

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user core.User) (*core.User, error) {
	lessonIDs, err := encodeLessonIDs(user.LessonIDs)
	if err != nil {
		return nil, err
	}

	query, args := entsql.Dialect(r.drv.Dialect()).
		Insert(usersTable).
		Columns(userColumns...).
		Values(user.ID, user.Name, user.Email, user.Image, lessonIDs, user.CreatedAt, user.UpdatedAt).
		Query()

	if err := conn(ctx, r.drv).Exec(ctx, query, args, nil); err != nil {
		return nil, storeError(err)
	}

	created := user
	return &created, nil
}

// Get fetches a user by id, optionally expanding its lessons.
func (r *UserRepository) Get(ctx context.Context, id uuid.UUID, opts core.UserQueryOptions) (*core.User, error) {
	user, err := getUser(ctx, r.drv, id, opts.ForUpdate)
	if err != nil {
		return nil, err
	}

	if opts.IncludeLessons {
		lessons, err := listLessonsByIDs(ctx, r.drv, user.LessonIDs)
		if err != nil {
			return nil, err
		}
		user.Lessons = lessons
	}
	return user, nil
}

// Update persists the user's profile fields and lesson references.
func (r *UserRepository) Update(ctx context.Context, user core.User) (*core.User, error) {
	lessonIDs, err := encodeLessonIDs(user.LessonIDs)
	if err != nil {
		return nil, err
	}

	query, args := entsql.Dialect(r.drv.Dialect()).
		Update(usersTable).
		Set("name", user.Name).
		Set("email", user.Email).
		Set("image", user.Image).
		Set("lesson_ids", lessonIDs).
		Set("updated_at", user.UpdatedAt).
		Where(entsql.EQ("id", user.ID)).
		Query()

	if err := execAffectingOne(ctx, conn(ctx, r.drv), query, args); err != nil {
		return nil, err
	}

	updated := user
	return &updated, nil
}

func getUser(ctx context.Context, drv dialect.Driver, id uuid.UUID, forUpdate bool) (*core.User, error) {
	b := entsql.Dialect(drv.Dialect())
	selector := b.Select(userColumns...).
		From(b.Table(usersTable)).
		Where(entsql.EQ("id", id))
	// SQLite has no row locks; its writers are serialized by the database lock.
	if forUpdate && drv.Dialect() == dialect.Postgres {
		selector.ForUpdate()
	}
	query, args := selector.Query()

	rows := &entsql.Rows{}
	if err := conn(ctx, drv).Query(ctx, query, args, rows); err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, storeError(err)
		}
		return nil, core.ErrNotFound
	}

	var (
		user core.User
		raw  []byte
	)
	if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Image, &raw, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, storeError(err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &user.LessonIDs); err != nil {
			return nil, storeError(err)
		}
	}
	return &user, nil
}

func encodeLessonIDs(ids []uuid.UUID) (string, error) {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	buf, err := json.Marshal(ids)
	if err != nil {
		return "", storeError(err)
	}
	return string(buf), nil
}
