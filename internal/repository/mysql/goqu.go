package mysql

import (
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
)

// dialect builds parameterized MySQL statements.
var dialect = goqu.Dialect("mysql")
