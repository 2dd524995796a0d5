package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/quest-maker/auth-service/internal/domain"
	internal_errors "github.com/quest-maker/auth-service/internal/errors"
	"github.com/quest-maker/auth-service/internal/logger"
)

type organizationDoc struct {
	ID          primitive.ObjectID `bson:"id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	OwnerID     primitive.ObjectID `bson:"ownerId"`
	CreatedAt   string             `bson:"createdAt"`
	UpdatedAt   string             `bson:"updatedAt"`
}

type credentialDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Email         string             `bson:"email"`
	PasswordHash  string             `bson:"passwordHash"`
	FirstName     string             `bson:"firstName,omitempty"`
	LastName      string             `bson:"lastName,omitempty"`
	Roles         []bson.M           `bson:"roles,omitempty"`
	Organizations []organizationDoc  `bson:"organizations,omitempty"`
	UserType      string             `bson:"userType"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// Insert stores a new credential and returns its assigned id.
// A duplicate email surfaces as a conflict.
func (s *Storage) Insert(ctx context.Context, cred domain.Credential) (string, error) {
	doc, err := docFromCredential(cred)
	if err != nil {
		return "", err
	}

	res, err := s.creds.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", internal_errors.Conflict("Email already registered")
		}
		logger.Log.Error("failed to insert credential", "error", err)
		return "", internal_errors.Storage("Can't save credentials")
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", internal_errors.Storage("Unexpected inserted id type")
	}
	return id.Hex(), nil
}

func (s *Storage) FindByID(ctx context.Context, id string) (domain.Credential, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// an id this service never issued matches nothing
		return domain.Credential{}, internal_errors.NotFound("Credentials not found")
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *Storage) FindByEmail(ctx context.Context, email string) (domain.Credential, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *Storage) findOne(ctx context.Context, filter bson.M) (domain.Credential, error) {
	var doc credentialDoc
	if err := s.creds.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Credential{}, internal_errors.NotFound("Credentials not found")
		}
		logger.Log.Error("failed to find credential", "error", err)
		return domain.Credential{}, internal_errors.Storage("Can't read credentials")
	}
	return credentialFromDoc(doc), nil
}

// Update merges only the set fields into the document. Updating an id that
// matches nothing is a successful no-op.
func (s *Storage) Update(ctx context.Context, id string, fields domain.UpdateFields) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	set, err := setFromFields(fields)
	if err != nil {
		return err
	}

	if _, err := s.creds.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set}); err != nil {
		logger.Log.Error("failed to update credential", "id", id, "error", err)
		return internal_errors.Storage("Can't update credentials")
	}
	return nil
}

// Delete removes the document. Deleting a nonexistent id is not an error.
func (s *Storage) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	if _, err := s.creds.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		logger.Log.Error("failed to delete credential", "id", id, "error", err)
		return internal_errors.Storage("Can't delete credentials")
	}
	return nil
}

func docFromCredential(cred domain.Credential) (credentialDoc, error) {
	orgs, err := orgDocs(cred.Organizations)
	if err != nil {
		return credentialDoc{}, err
	}
	return credentialDoc{
		Email:         cred.Email,
		PasswordHash:  cred.PasswordHash,
		FirstName:     cred.FirstName,
		LastName:      cred.LastName,
		Roles:         roleDocs(cred.Roles),
		Organizations: orgs,
		UserType:      cred.UserType,
		CreatedAt:     cred.CreatedAt,
		UpdatedAt:     cred.UpdatedAt,
	}, nil
}

func credentialFromDoc(doc credentialDoc) domain.Credential {
	return domain.Credential{
		ID:            doc.ID.Hex(),
		Email:         doc.Email,
		PasswordHash:  doc.PasswordHash,
		FirstName:     doc.FirstName,
		LastName:      doc.LastName,
		Roles:         rolesFromDocs(doc.Roles),
		Organizations: orgsFromDocs(doc.Organizations),
		UserType:      doc.UserType,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

func setFromFields(fields domain.UpdateFields) (bson.M, error) {
	set := bson.M{"updatedAt": fields.UpdatedAt}
	if fields.Email != nil {
		set["email"] = *fields.Email
	}
	if fields.FirstName != nil {
		set["firstName"] = *fields.FirstName
	}
	if fields.LastName != nil {
		set["lastName"] = *fields.LastName
	}
	if fields.PasswordHash != nil {
		set["passwordHash"] = *fields.PasswordHash
	}
	if fields.Roles != nil {
		set["roles"] = roleDocs(fields.Roles)
	}
	if fields.Organizations != nil {
		orgs, err := orgDocs(fields.Organizations)
		if err != nil {
			return nil, err
		}
		set["organizations"] = orgs
	}
	return set, nil
}

func orgDocs(orgs []domain.Organization) ([]organizationDoc, error) {
	if orgs == nil {
		return nil, nil
	}
	docs := make([]organizationDoc, 0, len(orgs))
	for _, org := range orgs {
		id, err := primitive.ObjectIDFromHex(org.ID)
		if err != nil {
			return nil, internal_errors.BadRequest("Invalid organization id")
		}
		ownerID, err := primitive.ObjectIDFromHex(org.OwnerID)
		if err != nil {
			return nil, internal_errors.BadRequest("Invalid organization owner id")
		}
		docs = append(docs, organizationDoc{
			ID:          id,
			Name:        org.Name,
			Description: org.Description,
			OwnerID:     ownerID,
			CreatedAt:   org.CreatedAt,
			UpdatedAt:   org.UpdatedAt,
		})
	}
	return docs, nil
}

func orgsFromDocs(docs []organizationDoc) []domain.Organization {
	if docs == nil {
		return nil
	}
	orgs := make([]domain.Organization, 0, len(docs))
	for _, doc := range docs {
		orgs = append(orgs, domain.Organization{
			ID:          doc.ID.Hex(),
			Name:        doc.Name,
			Description: doc.Description,
			OwnerID:     doc.OwnerID.Hex(),
			CreatedAt:   doc.CreatedAt,
			UpdatedAt:   doc.UpdatedAt,
		})
	}
	return orgs
}

// roleRefKeys are the embedded reference ids known to appear inside the
// otherwise opaque role payloads.
var roleRefKeys = []string{"_id", "organizationId"}

// roleDocs converts hex-string reference ids to ObjectIDs. Values that are
// not valid hex stay as-is: the payload is opaque and forwarded verbatim.
func roleDocs(roles []map[string]any) []bson.M {
	if roles == nil {
		return nil
	}
	docs := make([]bson.M, 0, len(roles))
	for _, role := range roles {
		doc := bson.M{}
		for k, v := range role {
			doc[k] = v
		}
		for _, key := range roleRefKeys {
			if str, ok := doc[key].(string); ok {
				if oid, err := primitive.ObjectIDFromHex(str); err == nil {
					doc[key] = oid
				}
			}
		}
		docs = append(docs, doc)
	}
	return docs
}

func rolesFromDocs(docs []bson.M) []map[string]any {
	if docs == nil {
		return nil
	}
	roles := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		role := map[string]any{}
		for k, v := range doc {
			role[k] = v
		}
		for _, key := range roleRefKeys {
			if oid, ok := role[key].(primitive.ObjectID); ok {
				role[key] = oid.Hex()
			}
		}
		roles = append(roles, role)
	}
	return roles
}
