package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jaekwang-park/agenda-api/internal/calendar"
	"github.com/jaekwang-park/agenda-api/internal/model"
)

type userRow struct {
	ID        string `gorm:"primaryKey"`
	Subject   string `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

func (userRow) TableName() string { return "users" }

type taskRow struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index;not null"`
	Title     string `gorm:"not null"`
	Notes     string
	Priority  int    `gorm:"not null;default:3"`
	Kind      string `gorm:"not null"`
	DueDate   *calendar.Date
	IsDone    bool `gorm:"not null;default:false"`
	Rule      string
	StartDate *calendar.Date
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (taskRow) TableName() string { return "tasks" }

type radarRow struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index;not null"`
	Title     string `gorm:"not null"`
	Notes     string
	Priority  int `gorm:"not null;default:3"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (radarRow) TableName() string { return "radar_items" }

// NewSQLiteDB opens a single-file SQLite database and migrates it.
func NewSQLiteDB(path string) (*gorm.DB, error) {
	if path == "" {
		path = "agenda.db"
	}
	if err := ensureDirForSQLite(path); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: dbLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.AutoMigrate(&userRow{}, &taskRow{}, &radarRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
	}
	return db, nil
}

func ensureDirForSQLite(path string) error {
	if strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(path, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database dir %q: %w", dir, err)
	}
	return nil
}

// notFound translates gorm's missing-record error into sql.ErrNoRows so
// callers handle both stores the same way.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sql.ErrNoRows
	}
	return err
}

type SQLiteTaskRepository struct {
	db *gorm.DB
}

func NewSQLiteTask(db *gorm.DB) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{db: db}
}

func (r *SQLiteTaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	row := toTaskRow(task)
	row.ID = uuid.NewString()
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return row.toModel(), nil
}

func (r *SQLiteTaskRepository) GetByID(ctx context.Context, userID, taskID string) (model.Task, error) {
	var row taskRow
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", taskID, userID).First(&row).Error
	if err != nil {
		return model.Task{}, notFound(err)
	}
	return row.toModel(), nil
}

func (r *SQLiteTaskRepository) Update(ctx context.Context, task model.Task) (model.Task, error) {
	result := r.db.WithContext(ctx).Model(&taskRow{}).
		Where("id = ? AND user_id = ?", task.ID, task.UserID).
		Updates(map[string]any{
			"title":      task.Title,
			"notes":      task.Notes,
			"priority":   task.Priority,
			"kind":       string(task.Kind),
			"due_date":   task.DueDate,
			"is_done":    task.IsDone,
			"rule":       task.Rule,
			"start_date": task.StartDate,
		})
	if result.Error != nil {
		return model.Task{}, fmt.Errorf("failed to update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.Task{}, sql.ErrNoRows
	}
	return r.GetByID(ctx, task.UserID, task.ID)
}

func (r *SQLiteTaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", taskID, userID).Delete(&taskRow{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *SQLiteTaskRepository) List(ctx context.Context, params model.TaskListParams) ([]model.Task, error) {
	return findTasks(r.db.WithContext(ctx), params)
}

func findTasks(db *gorm.DB, params model.TaskListParams) ([]model.Task, error) {
	q := db.Where("user_id = ?", params.UserID)
	if params.Kind != nil {
		q = q.Where("kind = ?", string(*params.Kind))
	}
	if params.IsDone != nil {
		q = q.Where("is_done = ?", *params.IsDone)
	}

	var rows []taskRow
	if err := q.Order("COALESCE(due_date, start_date), priority, created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	tasks := make([]model.Task, len(rows))
	for i, row := range rows {
		tasks[i] = row.toModel()
	}
	return tasks, nil
}

func toTaskRow(t model.Task) taskRow {
	return taskRow{
		ID:        t.ID,
		UserID:    t.UserID,
		Title:     t.Title,
		Notes:     t.Notes,
		Priority:  t.Priority,
		Kind:      string(t.Kind),
		DueDate:   t.DueDate,
		IsDone:    t.IsDone,
		Rule:      t.Rule,
		StartDate: t.StartDate,
	}
}

func (r taskRow) toModel() model.Task {
	return model.Task{
		ID:        r.ID,
		UserID:    r.UserID,
		Title:     r.Title,
		Notes:     r.Notes,
		Priority:  r.Priority,
		Kind:      model.TaskKind(r.Kind),
		DueDate:   r.DueDate,
		IsDone:    r.IsDone,
		Rule:      r.Rule,
		StartDate: r.StartDate,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type SQLiteRadarRepository struct {
	db *gorm.DB
}

func NewSQLiteRadar(db *gorm.DB) *SQLiteRadarRepository {
	return &SQLiteRadarRepository{db: db}
}

func (r *SQLiteRadarRepository) Create(ctx context.Context, item model.RadarItem) (model.RadarItem, error) {
	row := radarRow{
		ID:       uuid.NewString(),
		UserID:   item.UserID,
		Title:    item.Title,
		Notes:    item.Notes,
		Priority: item.Priority,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.RadarItem{}, fmt.Errorf("failed to create radar item: %w", err)
	}
	return row.toModel(), nil
}

func (r *SQLiteRadarRepository) GetByID(ctx context.Context, userID, itemID string) (model.RadarItem, error) {
	var row radarRow
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).First(&row).Error
	if err != nil {
		return model.RadarItem{}, notFound(err)
	}
	return row.toModel(), nil
}

func (r *SQLiteRadarRepository) Delete(ctx context.Context, userID, itemID string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).Delete(&radarRow{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete radar item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *SQLiteRadarRepository) List(ctx context.Context, userID string) ([]model.RadarItem, error) {
	return findRadarItems(r.db.WithContext(ctx), userID)
}

func findRadarItems(db *gorm.DB, userID string) ([]model.RadarItem, error) {
	var rows []radarRow
	err := db.Where("user_id = ?", userID).Order("priority, created_at DESC, id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list radar items: %w", err)
	}
	items := make([]model.RadarItem, len(rows))
	for i, row := range rows {
		items[i] = row.toModel()
	}
	return items, nil
}

func (r radarRow) toModel() model.RadarItem {
	return model.RadarItem{
		ID:        r.ID,
		UserID:    r.UserID,
		Title:     r.Title,
		Notes:     r.Notes,
		Priority:  r.Priority,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// SQLiteSnapshotReader reads both lists in one transaction.
type SQLiteSnapshotReader struct {
	db *gorm.DB
}

func NewSQLiteSnapshot(db *gorm.DB) *SQLiteSnapshotReader {
	return &SQLiteSnapshotReader{db: db}
}

func (r *SQLiteSnapshotReader) Snapshot(ctx context.Context, userID string, withRadar bool) (model.Snapshot, error) {
	var snap model.Snapshot
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		snap.Tasks, err = findTasks(tx, model.TaskListParams{UserID: userID})
		if err != nil {
			return err
		}
		if withRadar {
			snap.RadarItems, err = findRadarItems(tx, userID)
		}
		return err
	})
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return snap, nil
}

type SQLiteUserRepository struct {
	db *gorm.DB
}

func NewSQLiteUser(db *gorm.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

func (r *SQLiteUserRepository) GetOrCreate(ctx context.Context, subject string) (model.User, error) {
	var row userRow
	err := r.db.WithContext(ctx).
		Where(userRow{Subject: subject}).
		Attrs(userRow{ID: uuid.NewString()}).
		FirstOrCreate(&row).Error
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get or create user: %w", err)
	}
	return model.User{ID: row.ID, Subject: row.Subject, CreatedAt: row.CreatedAt}, nil
}

func (r *SQLiteUserRepository) GetBySubject(ctx context.Context, subject string) (model.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Where("subject = ?", subject).First(&row).Error; err != nil {
		return model.User{}, notFound(err)
	}
	return model.User{ID: row.ID, Subject: row.Subject, CreatedAt: row.CreatedAt}, nil
}

var (
	_ TaskRepository  = (*SQLiteTaskRepository)(nil)
	_ RadarRepository = (*SQLiteRadarRepository)(nil)
	_ SnapshotReader  = (*SQLiteSnapshotReader)(nil)
	_ UserRepository  = (*SQLiteUserRepository)(nil)
)
