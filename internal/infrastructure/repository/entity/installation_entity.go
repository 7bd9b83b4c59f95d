package entity

import (
	"time"

	"shopify-pixel-relay/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoInstallationDoc represents an installation in MongoDB
type MongoInstallationDoc struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Shop                string             `bson:"shop"`
	Scope               string             `bson:"scope"`
	AssociatedUserEmail string             `bson:"associatedUserEmail,omitempty"`
	State               string             `bson:"state,omitempty"`
	InstalledAt         time.Time          `bson:"installedAt"`
	UpdatedAt           time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoInstallationDoc) ToDomain() *domain.Installation {
	return &domain.Installation{
		Shop:                d.Shop,
		Scope:               d.Scope,
		AssociatedUserEmail: d.AssociatedUserEmail,
		State:               d.State,
		InstalledAt:         d.InstalledAt,
	}
}

// MongoInstallationDocFromDomain converts a domain entity to a MongoDB document
func MongoInstallationDocFromDomain(installation *domain.Installation) *MongoInstallationDoc {
	return &MongoInstallationDoc{
		Shop:                installation.Shop,
		Scope:               installation.Scope,
		AssociatedUserEmail: installation.AssociatedUserEmail,
		State:               installation.State,
		InstalledAt:         installation.InstalledAt,
	}
}
