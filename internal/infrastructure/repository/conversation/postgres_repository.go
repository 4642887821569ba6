package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "ecoeats-server/internal/domain/conversation"
	"ecoeats-server/internal/infrastructure/database/entities"
	"ecoeats-server/internal/utils/platformerrors"
)

// Repository persists conversations and chat messages in PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a conversation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ domain.Repository = (*Repository)(nil)

// CreateConversation inserts the conversation record.
func (r *Repository) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	entity := entities.NewSchemaConversation(conv)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation",
			err,
			"8b1f2c3d-4e5a-4b6c-9d0e-1f2a3b4c5d6e",
		)
	}

	conv.ID = entity.ID
	conv.CreatedAt = entity.CreatedAt
	conv.UpdatedAt = entity.UpdatedAt
	return nil
}

// ListConversations returns the user's conversations, most recently updated
// first.
func (r *Repository) ListConversations(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	var rows []entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list conversations",
			err,
			"2c3d4e5f-6a7b-4c8d-9e0f-1a2b3c4d5e6f",
		)
	}

	conversations := make([]*domain.Conversation, len(rows))
	for i := range rows {
		conversations[i] = rows[i].EtoD()
	}
	return conversations, nil
}

// FindConversation fetches a conversation by its public ID, scoped to the
// owning user.
func (r *Repository) FindConversation(ctx context.Context, userID, publicID string) (*domain.Conversation, error) {
	var entity entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND public_id = ?", userID, publicID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("conversation not found: %s", publicID),
				nil,
				"7d8e9f0a-1b2c-4d3e-8f4a-5b6c7d8e9f0a",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch conversation",
			err,
			"3e4f5a6b-7c8d-4e9f-0a1b-2c3d4e5f6a7b",
		)
	}

	return entity.EtoD(), nil
}

// UpdateConversationTitle sets the display title.
func (r *Repository) UpdateConversationTitle(ctx context.Context, userID, publicID, title string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("user_id = ? AND public_id = ?", userID, publicID).
		Update("title", title)
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update conversation title",
			result.Error,
			"9f0a1b2c-3d4e-4f5a-8b6c-7d8e9f0a1b2c",
		)
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("conversation not found: %s", publicID),
			nil,
			"5a6b7c8d-9e0f-4a1b-8c2d-3e4f5a6b7c8d",
		)
	}
	return nil
}

// TouchConversation bumps updated_at so recency ordering reflects new
// activity.
func (r *Repository) TouchConversation(ctx context.Context, userID, publicID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("user_id = ? AND public_id = ?", userID, publicID).
		Update("updated_at", at)
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to touch conversation",
			result.Error,
			"1b2c3d4e-5f6a-4b7c-8d9e-0f1a2b3c4d5e",
		)
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("conversation not found: %s", publicID),
			nil,
			"6c7d8e9f-0a1b-4c2d-8e3f-4a5b6c7d8e9f",
		)
	}
	return nil
}

// DeleteConversation removes the conversation row. Messages go with it via
// the foreign key cascade; the explicit delete below covers databases
// migrated before the constraint existed.
func (r *Repository) DeleteConversation(ctx context.Context, userID, publicID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("conversation_id = ?", publicID).
			Delete(&entities.ChatMessage{}).Error; err != nil {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError,
				"failed to delete conversation messages",
				err,
				"4d5e6f7a-8b9c-4d0e-8f1a-2b3c4d5e6f7a",
			)
		}

		result := tx.
			Where("user_id = ? AND public_id = ?", userID, publicID).
			Delete(&entities.Conversation{})
		if result.Error != nil {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError,
				"failed to delete conversation",
				result.Error,
				"0e1f2a3b-4c5d-4e6f-8a7b-9c0d1e2f3a4b",
			)
		}
		if result.RowsAffected == 0 {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("conversation not found: %s", publicID),
				nil,
				"8f9a0b1c-2d3e-4f4a-8b5c-6d7e8f9a0b1c",
			)
		}
		return nil
	})
}

// CreateMessage inserts one chat message row.
func (r *Repository) CreateMessage(ctx context.Context, msg *domain.Message) error {
	entity := entities.NewSchemaChatMessage(msg)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create chat message",
			err,
			"2a3b4c5d-6e7f-4a8b-8c9d-0e1f2a3b4c5d",
		)
	}

	msg.ID = entity.ID
	msg.CreatedAt = entity.CreatedAt
	return nil
}

// ListMessages returns the conversation's messages in ascending creation
// order.
func (r *Repository) ListMessages(ctx context.Context, userID, conversationPublicID string) ([]*domain.Message, error) {
	var rows []entities.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND conversation_id = ?", userID, conversationPublicID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list chat messages",
			err,
			"6e7f8a9b-0c1d-4e2f-8a3b-4c5d6e7f8a9b",
		)
	}

	messages := make([]*domain.Message, len(rows))
	for i := range rows {
		messages[i] = rows[i].EtoD()
	}
	return messages, nil
}

// CountMessages reports how many messages the conversation holds.
func (r *Repository) CountMessages(ctx context.Context, userID, conversationPublicID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.ChatMessage{}).
		Where("user_id = ? AND conversation_id = ?", userID, conversationPublicID).
		Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count chat messages",
			err,
			"0c1d2e3f-4a5b-4c6d-8e7f-8a9b0c1d2e3f",
		)
	}
	return count, nil
}
