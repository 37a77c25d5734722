package student

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет основные операции CRUD для студентов.
type Repository interface {
	// ─────────────────────────────────────────────────────────────────────────
	// CRUD Operations
	// ─────────────────────────────────────────────────────────────────────────

	// Create создаёт нового студента.
	// Возвращает shared.ErrAlreadyExists, если студент уже существует.
	Create(ctx context.Context, student *Student) error

	// GetByID возвращает студента по внутреннему ID.
	// Возвращает shared.ErrStudentNotFound, если студент не найден.
	GetByID(ctx context.Context, id string) (*Student, error)

	// GetByIDForUpdate возвращает студента, удерживая блокировку строки
	// до конца текущей транзакции (SELECT ... FOR UPDATE).
	// Вызывается только внутри транзакции; вне её ведёт себя как GetByID.
	// Возвращает shared.ErrStudentNotFound, если студент не найден.
	GetByIDForUpdate(ctx context.Context, id string) (*Student, error)

	// Update сохраняет изменённые поля студента.
	// Возвращает shared.ErrStudentNotFound, если студент не найден.
	Update(ctx context.Context, student *Student) error

	// ─────────────────────────────────────────────────────────────────────────
	// Bulk Operations
	// ─────────────────────────────────────────────────────────────────────────

	// GetAll возвращает всех студентов с пагинацией.
	GetAll(ctx context.Context, opts ListOptions) ([]*Student, error)

	// GetAllIDs возвращает идентификаторы всех студентов.
	// Используется фоновым месячным сбросом, чтобы обрабатывать студентов
	// по одному в отдельных транзакциях.
	GetAllIDs(ctx context.Context) ([]string, error)

	// Count возвращает общее количество студентов.
	Count(ctx context.Context) (int, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Existence Checks
	// ─────────────────────────────────────────────────────────────────────────

	// Exists проверяет существование студента по ID.
	Exists(ctx context.Context, id string) (bool, error)
}

// ListOptions содержит параметры для пагинации и сортировки.
type ListOptions struct {
	// Offset - смещение (для пагинации).
	Offset int

	// Limit - максимальное количество записей.
	Limit int

	// SortBy - поле для сортировки.
	SortBy string

	// SortDesc - сортировка по убыванию.
	SortDesc bool
}

// DefaultListOptions возвращает параметры по умолчанию.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Offset:   0,
		Limit:    50,
		SortBy:   "created_at",
		SortDesc: false,
	}
}

// WithOffset устанавливает смещение.
func (o ListOptions) WithOffset(offset int) ListOptions {
	o.Offset = offset
	return o
}

// WithLimit устанавливает лимит.
func (o ListOptions) WithLimit(limit int) ListOptions {
	o.Limit = limit
	return o
}

// WithSort устанавливает сортировку.
func (o ListOptions) WithSort(field string, desc bool) ListOptions {
	o.SortBy = field
	o.SortDesc = desc
	return o
}

// ══════════════════════════════════════════════════════════════════════════════
// CACHE INTERFACE
// Для кеширования часто запрашиваемых данных.
// ══════════════════════════════════════════════════════════════════════════════

// Cache определяет операции кеширования данных студентов.
type Cache interface {
	// Get получает студента из кеша.
	Get(ctx context.Context, studentID string) (*Student, error)

	// Set сохраняет студента в кеш.
	Set(ctx context.Context, student *Student, ttl time.Duration) error

	// Invalidate удаляет запись студента из кеша.
	Invalidate(ctx context.Context, studentID string) error

	// InvalidateAll очищает весь кеш студентов.
	InvalidateAll(ctx context.Context) error
}
