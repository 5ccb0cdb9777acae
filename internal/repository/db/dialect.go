package db

import (
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

func DialectName(conn *gorm.DB) string {
	if conn == nil || conn.Dialector == nil {
		return ""
	}
	return conn.Dialector.Name()
}

// likeEscape is the LIKE escape character. Backslash is avoided because MySQL
// and PostgreSQL disagree on how to spell it inside a string literal.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// CaseInsensitiveLikeExpr returns a LIKE condition on column; pair it with LikePattern.
func CaseInsensitiveLikeExpr(conn *gorm.DB, column string) string {
	if DialectName(conn) == DialectPostgres {
		return fmt.Sprintf("%s ILIKE ? ESCAPE '%s'", column, likeEscape)
	}
	return fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '%s'", column, likeEscape)
}

// LikePattern wraps s for a literal substring match; wildcards in s match only themselves.
func LikePattern(conn *gorm.DB, s string) string {
	if DialectName(conn) != DialectPostgres {
		s = strings.ToLower(s)
	}
	return "%" + likeEscaper.Replace(s) + "%"
}

// JSONArrayContainsExpr tests whether the JSON string array in column holds the bound value.
func JSONArrayContainsExpr(conn *gorm.DB, column string) string {
	switch DialectName(conn) {
	case DialectSQLite:
		return fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE value = ?)", column)
	case DialectMySQL:
		return fmt.Sprintf("JSON_CONTAINS(%s, JSON_QUOTE(?))", column)
	default:
		return fmt.Sprintf("%s @> ?", column)
	}
}

func JSONArrayContainsValue(conn *gorm.DB, value string) any {
	if DialectName(conn) == DialectPostgres {
		b, _ := json.Marshal([]string{value})
		return datatypes.JSON(b)
	}
	return value
}
