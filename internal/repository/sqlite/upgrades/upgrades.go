// Package upgrades holds the schema of the local sender key database.
package upgrades

import (
	"embed"

	"go.mau.fi/util/dbutil"
)

// Table is applied by dbutil.Database.Upgrade.
var Table dbutil.UpgradeTable

//go:embed *.sql
var upgrades embed.FS

func init() {
	Table.RegisterFS(upgrades)
}
