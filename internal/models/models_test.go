package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel_UnmarshalLegacyString(t *testing.T) {
	var doc Document
	raw := `{"categories": ["Gaming PC", {"id": "c2", "name": "Laptop", "description": "Portable"}]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	require.Len(t, doc.Categories, 2)
	assert.Equal(t, "Gaming PC", doc.Categories[0].Name)
	assert.Empty(t, doc.Categories[0].ID)
	assert.Equal(t, "c2", doc.Categories[1].ID)
	assert.Equal(t, "Portable", doc.Categories[1].Description)
}

func TestDocument_NormalizeFillsMissingCollections(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{"products": [{"id": "p1", "reviews": null}], "users": null}`), &doc))
	doc.Normalize()

	assert.NotNil(t, doc.Users)
	assert.NotNil(t, doc.Carts)
	assert.NotNil(t, doc.Reviews)
	assert.NotNil(t, doc.Products[0].Reviews)
	assert.NotNil(t, doc.Products[0].Specs)

	out, err := json.Marshal(EmptyDocument())
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"categories":[],"brands":[],"users":[],"products":[],"orders":[],"reviews":[],"carts":[]}`,
		string(out))
}

func TestUser_PublicDropsPassword(t *testing.T) {
	u := User{ID: "u1", Name: "Ann", Email: "ann@example.com", Password: "$2a$10$hash", IsAdmin: true, Role: RoleAdmin}

	out, err := json.Marshal(u.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(out), "password")
	assert.NotContains(t, string(out), "$2a$10$hash")
}

func TestOrderStatus(t *testing.T) {
	tests := []struct {
		status   OrderStatus
		valid    bool
		terminal bool
	}{
		{StatusPending, true, false},
		{StatusProcessing, true, false},
		{StatusShipped, true, false},
		{StatusDelivered, true, true},
		{StatusCancelled, true, true},
		{"Lost", false, false},
		{"pending", false, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.status.Valid(), tt.status)
		assert.Equal(t, tt.terminal, tt.status.Terminal(), tt.status)
	}
}

func TestProduct_UnmarshalLegacyShapes(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantID  string
		wantAt  time.Time
		wantErr bool
	}{
		{"string id", `{"id": "p1", "createdAt": "2024-01-02T03:04:05Z"}`, "p1", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), false},
		{"numeric id", `{"id": 1700000000000}`, "1700000000000", time.Time{}, false},
		{"epoch millis", `{"id": "p1", "createdAt": 1700000000000}`, "p1", time.UnixMilli(1700000000000).UTC(), false},
		{"null fields", `{"id": null, "createdAt": null}`, "", time.Time{}, false},
		{"empty time", `{"id": "p1", "createdAt": ""}`, "p1", time.Time{}, false},
		{"bool id", `{"id": true}`, "", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Product
			err := json.Unmarshal([]byte(tt.raw), &p)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, p.ID)
			assert.True(t, tt.wantAt.Equal(p.CreatedAt), "createdAt %v", p.CreatedAt)
		})
	}
}

func TestLabel_UnmarshalNumericID(t *testing.T) {
	var l Label
	require.NoError(t, json.Unmarshal([]byte(`{"id": 42, "name": "Acme", "createdAt": 1700000000000}`), &l))
	assert.Equal(t, "42", l.ID)
	assert.Equal(t, "Acme", l.Name)
	assert.False(t, l.CreatedAt.IsZero())
}
