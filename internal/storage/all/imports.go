// Package all wires every built-in storage backend into the storage factory.
// It exists for side effects only:
//
//	import _ "github.com/madhukaudana/Data-Engineer-Practical/internal/storage/all"
//
// makes the mysql, postgres, mssql and sqlite kinds available to storage.New
// and storage.DialectFor.
package all

import (
	_ "github.com/madhukaudana/Data-Engineer-Practical/internal/storage/mssql"
	_ "github.com/madhukaudana/Data-Engineer-Practical/internal/storage/mysql"
	_ "github.com/madhukaudana/Data-Engineer-Practical/internal/storage/postgres"
	_ "github.com/madhukaudana/Data-Engineer-Practical/internal/storage/sqlite"
)
