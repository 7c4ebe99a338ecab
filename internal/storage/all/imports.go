// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each concrete backend, which register
// their factories with the storage package. The following kinds become
// available:
//
//   - "postgres" (dailyreports/internal/storage/postgres)
//   - "mssql"    (dailyreports/internal/storage/mssql)
//   - "mysql"    (dailyreports/internal/storage/mysql)
//   - "sqlite"   (dailyreports/internal/storage/sqlite)
//
// A binary that needs only a subset can import the backend packages directly.
package all

import (
	_ "dailyreports/internal/storage/mssql"
	_ "dailyreports/internal/storage/mysql"
	_ "dailyreports/internal/storage/postgres"
	_ "dailyreports/internal/storage/sqlite"
)
