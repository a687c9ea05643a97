package archivist

import (
	"github.com/cryptovibes/cryptovibes/archivist/models"
	"github.com/cryptovibes/cryptovibes/pkg/errlvl"
	"gorm.io/gorm"
)

// Entities is a struct that contains all the entities that Archivist is responsible for.
type Entities struct {
	Runs *models.RunsDB
}

// Archivist is responsible for storing and retrieving analysis runs from the database.
type Archivist struct {
	db       *gorm.DB
	Entities *Entities
}

// NewArchivist creates a new Archivist with provided DSN to connect to database.
//
// DSN is a string in the format of: "user=gorm password=gorm dbname=gorm port=9920 sslmode=disable"
func NewArchivist(dsn string) (*Archivist, error) {
	conn, err := connectToPG(dsn)
	if err != nil {
		return nil, newError(errlvl.FATAL, errFailedConnection, err)
	}

	// Migrate the schema automatically for now.
	// TODO: Add migration tool later.
	err = conn.AutoMigrate(&models.Run{})
	if err != nil {
		return nil, newError(errlvl.FATAL, errFailedMigration, err)
	}

	return &Archivist{
		db: conn,
		Entities: &Entities{
			Runs: models.NewRunsDB(conn),
		},
	}, nil
}
