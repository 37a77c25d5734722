package recognition

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции для работы с признаниями.
type Repository interface {
	// Create сохраняет новое признание.
	Create(ctx context.Context, recognition *Recognition) error

	// GetByID возвращает признание по идентификатору.
	// Возвращает shared.ErrRecognitionNotFound, если признание не найдено.
	GetByID(ctx context.Context, id string) (*Recognition, error)

	// GetBySender возвращает признания, отправленные студентом, новые первыми.
	GetBySender(ctx context.Context, senderID string, limit int) ([]*Recognition, error)

	// GetByReceiver возвращает признания, полученные студентом, новые первыми.
	GetByReceiver(ctx context.Context, receiverID string, limit int) ([]*Recognition, error)

	// CountByReceiver возвращает число признаний, полученных студентом.
	CountByReceiver(ctx context.Context, receiverID string) (int, error)
}

// EndorsementRepository определяет операции для работы с endorsement'ами.
type EndorsementRepository interface {
	// Create сохраняет новый endorsement.
	// Возвращает shared.ErrDuplicateEndorsement при нарушении уникальности
	// пары (recognition_id, endorser_id).
	Create(ctx context.Context, endorsement *Endorsement) error

	// GetByRecognition возвращает endorsement'ы признания, старые первыми.
	GetByRecognition(ctx context.Context, recognitionID string) ([]*Endorsement, error)

	// Exists проверяет, endorse'ил ли студент указанное признание.
	Exists(ctx context.Context, recognitionID, endorserID string) (bool, error)

	// CountByRecognition возвращает число endorsement'ов признания.
	CountByRecognition(ctx context.Context, recognitionID string) (int, error)
}
