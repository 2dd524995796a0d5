package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/quest-maker/auth-service/internal/domain"
	internal_errors "github.com/quest-maker/auth-service/internal/errors"
)

func TestOrganizationIDConversion(t *testing.T) {
	orgID := primitive.NewObjectID()
	ownerID := primitive.NewObjectID()

	t.Run("hex strings become ObjectIDs and back", func(t *testing.T) {
		orgs := []domain.Organization{{
			ID:      orgID.Hex(),
			Name:    "acme",
			OwnerID: ownerID.Hex(),
		}}

		docs, err := orgDocs(orgs)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, orgID, docs[0].ID)
		assert.Equal(t, ownerID, docs[0].OwnerID)

		back := orgsFromDocs(docs)
		assert.Equal(t, orgs, back)
	})

	t.Run("invalid reference id is a bad request", func(t *testing.T) {
		_, err := orgDocs([]domain.Organization{{ID: "nope", OwnerID: ownerID.Hex()}})
		var e *internal_errors.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, internal_errors.KindBadRequest, e.Kind)
	})
}

func TestRoleIDConversion(t *testing.T) {
	roleID := primitive.NewObjectID()
	orgID := primitive.NewObjectID()

	t.Run("known reference keys are converted", func(t *testing.T) {
		roles := []map[string]any{{
			"_id":            roleID.Hex(),
			"organizationId": orgID.Hex(),
			"name":           "editor",
		}}

		docs := roleDocs(roles)
		require.Len(t, docs, 1)
		assert.Equal(t, roleID, docs[0]["_id"])
		assert.Equal(t, orgID, docs[0]["organizationId"])
		assert.Equal(t, "editor", docs[0]["name"])

		back := rolesFromDocs(docs)
		assert.Equal(t, roles[0]["_id"], back[0]["_id"])
		assert.Equal(t, roles[0]["organizationId"], back[0]["organizationId"])
	})

	t.Run("opaque values pass through untouched", func(t *testing.T) {
		roles := []map[string]any{{
			"_id":   "not-hex-at-all",
			"level": 3,
		}}

		docs := roleDocs(roles)
		assert.Equal(t, "not-hex-at-all", docs[0]["_id"])
		assert.Equal(t, 3, docs[0]["level"])
	})

	t.Run("input maps are not mutated", func(t *testing.T) {
		role := map[string]any{"_id": roleID.Hex()}
		_ = roleDocs([]map[string]any{role})
		assert.Equal(t, roleID.Hex(), role["_id"])
	})
}

func TestSetFromFields(t *testing.T) {
	now := time.Now().UTC()

	t.Run("only set members appear", func(t *testing.T) {
		first := "Ada"
		set, err := setFromFields(domain.UpdateFields{FirstName: &first, UpdatedAt: now})
		require.NoError(t, err)

		assert.Equal(t, bson.M{"updatedAt": now, "firstName": "Ada"}, set)
	})

	t.Run("updatedAt is always present", func(t *testing.T) {
		set, err := setFromFields(domain.UpdateFields{UpdatedAt: now})
		require.NoError(t, err)
		assert.Equal(t, bson.M{"updatedAt": now}, set)
	})

	t.Run("password hash travels only when set", func(t *testing.T) {
		h := "$2a$10$hash"
		set, err := setFromFields(domain.UpdateFields{PasswordHash: &h, UpdatedAt: now})
		require.NoError(t, err)
		assert.Equal(t, "$2a$10$hash", set["passwordHash"])
	})
}

func TestDocCredentialRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	orgID := primitive.NewObjectID()
	ownerID := primitive.NewObjectID()

	cred := domain.Credential{
		Email:        "a@x.com",
		PasswordHash: "$2a$10$hash",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Organizations: []domain.Organization{{
			ID:      orgID.Hex(),
			Name:    "acme",
			OwnerID: ownerID.Hex(),
		}},
		UserType:  "regular",
		CreatedAt: now,
		UpdatedAt: now,
	}

	doc, err := docFromCredential(cred)
	require.NoError(t, err)
	assert.True(t, doc.ID.IsZero(), "the store assigns the id, not the mapper")

	doc.ID = primitive.NewObjectID()
	back := credentialFromDoc(doc)

	assert.Equal(t, doc.ID.Hex(), back.ID)
	cred.ID = back.ID
	assert.Equal(t, cred, back)
}
