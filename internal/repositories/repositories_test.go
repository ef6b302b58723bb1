package repositories_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
	"messaging-service/internal/store"
)

// capture records the last request seen by the fake store and replies
// with a canned body.
type capture struct {
	method string
	path   string
	query  string
	body   string

	status   int
	response string
}

func (c *capture) server(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.method = r.Method
		c.path = r.URL.Path
		c.query = r.URL.RawQuery
		raw, _ := io.ReadAll(r.Body)
		c.body = string(raw)
		if c.status != 0 {
			w.WriteHeader(c.status)
		}
		io.WriteString(w, c.response)
	}))
}

func newStoreClient(srv *httptest.Server) *store.Client {
	return store.NewClient(store.Config{BaseURL: srv.URL, APIKey: "anon", Token: "svc"}, srv.Client())
}

func TestConversationRepoCreate(t *testing.T) {
	cap := &capture{status: http.StatusCreated, response: `[{"id":"c1","type":"group","name":"Team","created_by":"u1"}]`}
	srv := cap.server(t)
	defer srv.Close()

	repo := repositories.NewConversationRepo(newStoreClient(srv))
	name := "Team"
	conv, err := repo.Create(context.Background(), models.NewConversation{
		Type: models.TypeGroup, Name: &name, CreatedBy: "u1",
	})
	require.NoError(t, err)
	require.Equal(t, "c1", conv.ID)
	require.Equal(t, http.MethodPost, cap.method)
	require.Equal(t, "/rest/v1/conversations", cap.path)
	require.JSONEq(t, `{"type":"group","name":"Team","created_by":"u1"}`, cap.body)
}

func TestConversationRepoCreateNoRepresentation(t *testing.T) {
	cap := &capture{status: http.StatusCreated, response: `[]`}
	srv := cap.server(t)
	defer srv.Close()

	repo := repositories.NewConversationRepo(newStoreClient(srv))
	_, err := repo.Create(context.Background(), models.NewConversation{Type: models.TypeGroup, CreatedBy: "u1"})
	require.Error(t, err)
}

func TestConversationRepoPatchNoMatchReturnsNil(t *testing.T) {
	cap := &capture{response: `[]`}
	srv := cap.server(t)
	defer srv.Close()

	repo := repositories.NewConversationRepo(newStoreClient(srv))
	conv, err := repo.Patch(context.Background(), "c1", map[string]any{"name": "x"})
	require.NoError(t, err)
	require.Nil(t, conv)
	require.Equal(t, http.MethodPatch, cap.method)
	require.Contains(t, cap.query, "id=eq.c1")
}

func TestConversationRepoSoftDeleteStampsBothColumns(t *testing.T) {
	cap := &capture{response: `[{"id":"c1","type":"group","created_by":"u1"}]`}
	srv := cap.server(t)
	defer srv.Close()

	repo := repositories.NewConversationRepo(newStoreClient(srv))
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	conv, err := repo.SoftDelete(context.Background(), "c1", now)
	require.NoError(t, err)
	require.NotNil(t, conv)
	require.JSONEq(t, `{"deleted_at":"2025-06-01T12:00:00Z","updated_at":"2025-06-01T12:00:00Z"}`, cap.body)
}

func TestConversationRepoListForMemberQuery(t *testing.T) {
	cap := &capture{response: `[{"conversation":{"id":"c1","type":"group","name":"Team"},"role":"owner","joined_at":"2025-06-01T12:00:00Z"}]`}
	srv := cap.server(t)
	defer srv.Close()

	repo := repositories.NewConversationRepo(newStoreClient(srv))
	rows, err := repo.ListForMember(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "c1", rows[0].Conversation.ID)
	require.Equal(t, models.RoleOwner, rows[0].Role)

	require.Equal(t, "/rest/v1/conversation_members", cap.path)
	require.Contains(t, cap.query, "user_id=eq.u1")
	require.Contains(t, cap.query, "left_at=is.null")
	require.Contains(t, cap.query, "conversation.deleted_at=is.null")
	require.Contains(t, cap.query, "select=")
}

func TestConversationRepoGetForMemberNotAMember(t *testing.T) {
	cap := &capture{response: `[]`}
	srv := cap.server(t)
	defer srv.Close()

	repo := repositories.NewConversationRepo(newStoreClient(srv))
	row, err := repo.GetForMember(context.Background(), "u1", "c1")
	require.NoError(t, err)
	require.Nil(t, row)
	require.Contains(t, cap.query, "conversation_id=eq.c1")
	require.Contains(t, cap.query, "limit=1")
}

func TestConversationRepoFindDirectByKey(t *testing.T) {
	cap := &capture{response: `[{"id":"c1","type":"direct","direct_key":"a:b","created_by":"a"}]`}
	srv := cap.server(t)
	defer srv.Close()

	repo := repositories.NewConversationRepo(newStoreClient(srv))
	conv, err := repo.FindDirectByKey(context.Background(), "a:b")
	require.NoError(t, err)
	require.NotNil(t, conv)
	require.Equal(t, "c1", conv.ID)

	require.Equal(t, "/rest/v1/conversations", cap.path)
	require.Contains(t, cap.query, "type=eq.direct")
	require.Contains(t, cap.query, "direct_key=eq.a%3Ab")
	require.Contains(t, cap.query, "deleted_at=is.null")
}

func TestMembershipRepoInsert(t *testing.T) {
	cap := &capture{status: http.StatusCreated, response: `[{"conversation_id":"c1","user_id":"u2","role":"member","joined_at":"2025-06-01T12:00:00Z"}]`}
	srv := cap.server(t)
	defer srv.Close()

	repo := repositories.NewMembershipRepo(newStoreClient(srv))
	membership, err := repo.Insert(context.Background(), "c1", "u2", models.RoleMember)
	require.NoError(t, err)
	require.Equal(t, models.RoleMember, membership.Role)
	require.JSONEq(t, `{"conversation_id":"c1","user_id":"u2","role":"member"}`, cap.body)
}

func TestMembershipRepoActiveMembershipFiltersLeftRows(t *testing.T) {
	cap := &capture{response: `[]`}
	srv := cap.server(t)
	defer srv.Close()

	repo := repositories.NewMembershipRepo(newStoreClient(srv))
	membership, err := repo.ActiveMembership(context.Background(), "c1", "u1")
	require.NoError(t, err)
	require.Nil(t, membership)
	require.Contains(t, cap.query, "conversation_id=eq.c1")
	require.Contains(t, cap.query, "user_id=eq.u1")
	require.Contains(t, cap.query, "left_at=is.null")
}

func TestMembershipRepoPatchRoleTargetsActiveRowsOnly(t *testing.T) {
	cap := &capture{response: `[{"conversation_id":"c1","user_id":"u2","role":"owner"}]`}
	srv := cap.server(t)
	defer srv.Close()

	repo := repositories.NewMembershipRepo(newStoreClient(srv))
	rows, err := repo.PatchRole(context.Background(), "c1", "u2", models.RoleOwner)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Contains(t, cap.query, "left_at=is.null")
	require.JSONEq(t, `{"role":"owner"}`, cap.body)
}

func TestMembershipRepoDelete(t *testing.T) {
	cap := &capture{response: `[{"conversation_id":"c1","user_id":"u2","role":"member"}]`}
	srv := cap.server(t)
	defer srv.Close()

	repo := repositories.NewMembershipRepo(newStoreClient(srv))
	rows, err := repo.Delete(context.Background(), "c1", "u2")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, http.MethodDelete, cap.method)
	require.Contains(t, cap.query, "user_id=eq.u2")
	require.NotContains(t, cap.query, "left_at")
}

func TestProfileRepoFindByExternalID(t *testing.T) {
	cap := &capture{response: `[{"id":"p1","auth_id":"ext-1","first_name":"Ann"}]`}
	srv := cap.server(t)
	defer srv.Close()

	repo := repositories.NewProfileRepo(newStoreClient(srv))
	profile, err := repo.FindByExternalID(context.Background(), "ext-1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	require.Equal(t, "p1", profile.ID)

	require.Equal(t, "/rest/v1/profiles", cap.path)
	require.Contains(t, cap.query, "auth_id=eq.ext-1")
}

func TestProfileRepoExists(t *testing.T) {
	cap := &capture{response: `[{"id":"p1"}]`}
	srv := cap.server(t)
	defer srv.Close()

	repo := repositories.NewProfileRepo(newStoreClient(srv))
	exists, err := repo.Exists(context.Background(), "p1")
	require.NoError(t, err)
	require.True(t, exists)

	cap.response = `[]`
	exists, err = repo.Exists(context.Background(), "p2")
	require.NoError(t, err)
	require.False(t, exists)
}
