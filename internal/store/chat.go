package store

import (
	"context"
	"fmt"
	"time"

	"collab-server/internal/schema"
	"collab-server/internal/storage"
)

// CreateConversationParams represents parameters for opening a conversation
type CreateConversationParams struct {
	RequestID      *string
	Title          string
	ParticipantIDs []string
}

// CreateConversation opens a conversation and enrolls its participants in
// one transaction.
func (s *Store) CreateConversation(ctx context.Context, params CreateConversationParams) (Conversation, error) {
	var result Conversation
	err := s.Transaction(ctx, func(ctx context.Context, ts Store) error {
		id, err := ts.backend.Create(ctx, schema.TableConversations, storage.Row{
			schema.ColRequestID: strPtrValue(params.RequestID),
			schema.ColTitle:     params.Title,
		})
		if err != nil {
			return fmt.Errorf("failed to create conversation: %w", err)
		}
		for _, userID := range params.ParticipantIDs {
			_, err := ts.backend.Create(ctx, schema.TableConversationParticipants, storage.Row{
				schema.ColConversationID: id,
				schema.ColUserID:         userID,
				schema.ColJoinedAt:       storage.Now(),
			})
			if err != nil {
				return fmt.Errorf("failed to enroll participant: %w", err)
			}
		}
		row, err := ts.backend.FindByID(ctx, schema.TableConversations, id)
		if err != nil {
			return err
		}
		result = conversationFromRow(row)
		return nil
	})
	return result, err
}

// GetConversationByRequestID fetches the conversation bound to a
// collaboration request.
func (s *Store) GetConversationByRequestID(ctx context.Context, requestID string) (Conversation, error) {
	row, err := s.backend.FindFirst(ctx, schema.TableConversations, storage.Conditions{schema.ColRequestID: requestID})
	if err != nil {
		return Conversation{}, err
	}
	return conversationFromRow(row), nil
}

// ListParticipants returns the members of a conversation in join order.
func (s *Store) ListParticipants(ctx context.Context, conversationID string) ([]ConversationParticipant, error) {
	rows, err := s.backend.FindAll(ctx, schema.TableConversationParticipants, storage.Query{
		Conditions: storage.Conditions{schema.ColConversationID: conversationID},
		OrderBy:    []storage.Order{{Column: schema.ColJoinedAt}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]ConversationParticipant, len(rows))
	for i, r := range rows {
		out[i] = participantFromRow(r)
	}
	return out, nil
}

// AddChatMessage appends a message to a conversation. A nil senderID records
// a system message.
func (s *Store) AddChatMessage(ctx context.Context, conversationID string, senderID *string, body string) (ChatMessage, error) {
	id, err := s.backend.Create(ctx, schema.TableChatMessages, storage.Row{
		schema.ColConversationID: conversationID,
		schema.ColSenderID:       strPtrValue(senderID),
		schema.ColBody:           body,
	})
	if err != nil {
		return ChatMessage{}, fmt.Errorf("failed to add chat message: %w", err)
	}
	row, err := s.backend.FindByID(ctx, schema.TableChatMessages, id)
	if err != nil {
		return ChatMessage{}, err
	}
	return chatMessageFromRow(row), nil
}

// ListChatMessages returns the messages of a conversation in send order.
func (s *Store) ListChatMessages(ctx context.Context, conversationID string) ([]ChatMessage, error) {
	rows, err := s.backend.FindAll(ctx, schema.TableChatMessages, storage.Query{
		Conditions: storage.Conditions{schema.ColConversationID: conversationID},
		OrderBy:    []storage.Order{{Column: schema.ColCreatedAt}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]ChatMessage, len(rows))
	for i, r := range rows {
		out[i] = chatMessageFromRow(r)
	}
	return out, nil
}

// MarkMessageRead records a read receipt for one message and user.
func (s *Store) MarkMessageRead(ctx context.Context, messageID, userID string, at time.Time) error {
	_, err := s.backend.Create(ctx, schema.TableMessageReadStatus, storage.Row{
		schema.ColMessageID: messageID,
		schema.ColUserID:    userID,
		schema.ColReadAt:    storage.FormatTime(at),
	})
	if err != nil {
		return fmt.Errorf("failed to record read receipt: %w", err)
	}
	return nil
}

func conversationFromRow(r storage.Row) Conversation {
	return Conversation{
		ID:        rowString(r, schema.ColID),
		RequestID: rowStringPtr(r, schema.ColRequestID),
		Title:     rowString(r, schema.ColTitle),
		CreatedAt: rowTime(r, schema.ColCreatedAt),
		UpdatedAt: rowTime(r, schema.ColUpdatedAt),
	}
}

func participantFromRow(r storage.Row) ConversationParticipant {
	return ConversationParticipant{
		ID:             rowString(r, schema.ColID),
		ConversationID: rowString(r, schema.ColConversationID),
		UserID:         rowString(r, schema.ColUserID),
		JoinedAt:       rowTime(r, schema.ColJoinedAt),
		CreatedAt:      rowTime(r, schema.ColCreatedAt),
		UpdatedAt:      rowTime(r, schema.ColUpdatedAt),
	}
}

func chatMessageFromRow(r storage.Row) ChatMessage {
	return ChatMessage{
		ID:             rowString(r, schema.ColID),
		ConversationID: rowString(r, schema.ColConversationID),
		SenderID:       rowStringPtr(r, schema.ColSenderID),
		Body:           rowString(r, schema.ColBody),
		CreatedAt:      rowTime(r, schema.ColCreatedAt),
		UpdatedAt:      rowTime(r, schema.ColUpdatedAt),
	}
}
