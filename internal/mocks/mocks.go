package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"messaging-service/internal/models"
	"messaging-service/internal/service"
)

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) Create(ctx context.Context, input models.NewConversation) (models.Conversation, error) {
	args := m.Called(ctx, input)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) Patch(ctx context.Context, id string, fields map[string]any) (*models.Conversation, error) {
	args := m.Called(ctx, id, fields)
	var conv *models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(*models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) SoftDelete(ctx context.Context, id string, now time.Time) (*models.Conversation, error) {
	args := m.Called(ctx, id, now)
	var conv *models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(*models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) ListForMember(ctx context.Context, memberID string) ([]models.MemberConversation, error) {
	args := m.Called(ctx, memberID)
	var rows []models.MemberConversation
	if val := args.Get(0); val != nil {
		rows = val.([]models.MemberConversation)
	}
	return rows, args.Error(1)
}

func (m *ConversationRepositoryMock) GetForMember(ctx context.Context, memberID, conversationID string) (*models.MemberConversation, error) {
	args := m.Called(ctx, memberID, conversationID)
	var row *models.MemberConversation
	if val := args.Get(0); val != nil {
		row = val.(*models.MemberConversation)
	}
	return row, args.Error(1)
}

func (m *ConversationRepositoryMock) FindDirectByKey(ctx context.Context, key string) (*models.Conversation, error) {
	args := m.Called(ctx, key)
	var conv *models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(*models.Conversation)
	}
	return conv, args.Error(1)
}

type MembershipRepositoryMock struct {
	mock.Mock
}

func (m *MembershipRepositoryMock) Insert(ctx context.Context, conversationID, userID, role string) (models.Membership, error) {
	args := m.Called(ctx, conversationID, userID, role)
	var membership models.Membership
	if val := args.Get(0); val != nil {
		membership = val.(models.Membership)
	}
	return membership, args.Error(1)
}

func (m *MembershipRepositoryMock) ListActive(ctx context.Context, conversationID string) ([]models.Membership, error) {
	args := m.Called(ctx, conversationID)
	var rows []models.Membership
	if val := args.Get(0); val != nil {
		rows = val.([]models.Membership)
	}
	return rows, args.Error(1)
}

func (m *MembershipRepositoryMock) ActiveMembership(ctx context.Context, conversationID, userID string) (*models.Membership, error) {
	args := m.Called(ctx, conversationID, userID)
	var membership *models.Membership
	if val := args.Get(0); val != nil {
		membership = val.(*models.Membership)
	}
	return membership, args.Error(1)
}

func (m *MembershipRepositoryMock) PatchRole(ctx context.Context, conversationID, userID, role string) ([]models.Membership, error) {
	args := m.Called(ctx, conversationID, userID, role)
	var rows []models.Membership
	if val := args.Get(0); val != nil {
		rows = val.([]models.Membership)
	}
	return rows, args.Error(1)
}

func (m *MembershipRepositoryMock) Delete(ctx context.Context, conversationID, userID string) ([]models.Membership, error) {
	args := m.Called(ctx, conversationID, userID)
	var rows []models.Membership
	if val := args.Get(0); val != nil {
		rows = val.([]models.Membership)
	}
	return rows, args.Error(1)
}

type ProfileRepositoryMock struct {
	mock.Mock
}

func (m *ProfileRepositoryMock) Get(ctx context.Context, id string) (*models.Profile, error) {
	args := m.Called(ctx, id)
	var profile *models.Profile
	if val := args.Get(0); val != nil {
		profile = val.(*models.Profile)
	}
	return profile, args.Error(1)
}

func (m *ProfileRepositoryMock) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *ProfileRepositoryMock) FindByExternalID(ctx context.Context, externalID string) (*models.Profile, error) {
	args := m.Called(ctx, externalID)
	var profile *models.Profile
	if val := args.Get(0); val != nil {
		profile = val.(*models.Profile)
	}
	return profile, args.Error(1)
}

type ResolverMock struct {
	mock.Mock
}

func (m *ResolverMock) Resolve(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

type ConversationServiceMock struct {
	mock.Mock
}

func (m *ConversationServiceMock) CreateConversation(ctx context.Context, actorID string, in service.CreateConversationInput) (service.CreateConversationResult, error) {
	args := m.Called(ctx, actorID, in)
	var result service.CreateConversationResult
	if val := args.Get(0); val != nil {
		result = val.(service.CreateConversationResult)
	}
	return result, args.Error(1)
}

func (m *ConversationServiceMock) ListConversations(ctx context.Context, actorID string) ([]models.ConversationView, error) {
	args := m.Called(ctx, actorID)
	var views []models.ConversationView
	if val := args.Get(0); val != nil {
		views = val.([]models.ConversationView)
	}
	return views, args.Error(1)
}

func (m *ConversationServiceMock) GetConversationByID(ctx context.Context, actorID, conversationID string) (models.ConversationView, error) {
	args := m.Called(ctx, actorID, conversationID)
	var view models.ConversationView
	if val := args.Get(0); val != nil {
		view = val.(models.ConversationView)
	}
	return view, args.Error(1)
}

func (m *ConversationServiceMock) UpdateConversation(ctx context.Context, actorID, conversationID, name string) (models.Conversation, error) {
	args := m.Called(ctx, actorID, conversationID, name)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationServiceMock) DeleteConversation(ctx context.Context, actorID, conversationID string) error {
	args := m.Called(ctx, actorID, conversationID)
	return args.Error(0)
}

func (m *ConversationServiceMock) AddMember(ctx context.Context, actorID, conversationID, userID string) (models.Membership, error) {
	args := m.Called(ctx, actorID, conversationID, userID)
	var membership models.Membership
	if val := args.Get(0); val != nil {
		membership = val.(models.Membership)
	}
	return membership, args.Error(1)
}

func (m *ConversationServiceMock) ListMembers(ctx context.Context, actorID, conversationID string) ([]models.Membership, error) {
	args := m.Called(ctx, actorID, conversationID)
	var rows []models.Membership
	if val := args.Get(0); val != nil {
		rows = val.([]models.Membership)
	}
	return rows, args.Error(1)
}

func (m *ConversationServiceMock) UpdateMemberRole(ctx context.Context, actorID, conversationID, targetID, newRole string) (models.Membership, error) {
	args := m.Called(ctx, actorID, conversationID, targetID, newRole)
	var membership models.Membership
	if val := args.Get(0); val != nil {
		membership = val.(models.Membership)
	}
	return membership, args.Error(1)
}

func (m *ConversationServiceMock) RemoveMember(ctx context.Context, actorID, conversationID, targetID string) error {
	args := m.Called(ctx, actorID, conversationID, targetID)
	return args.Error(0)
}
