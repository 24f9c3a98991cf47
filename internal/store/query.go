package store

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/zorak1103/okrtree/internal/config"
)

// Table names of the four levels.
const (
	tableLifeDomains = "life_domains"
	tableGoals       = "goals"
	tableObjectives  = "objectives"
	tableKeyResults  = "key_results"
)

// selectColumns lists the projected columns in the order scanRow expects them.
const selectColumns = `
	ld.id AS life_domain_id,
	ld.domain_key,
	ld.title_nl AS life_domain_title_nl,
	ld.title_en AS life_domain_title_en,
	ld.display_order AS life_domain_order,
	g.id AS goal_id,
	g.title_nl AS goal_title_nl,
	g.title_en AS goal_title_en,
	g.description_nl AS goal_description_nl,
	g.description_en AS goal_description_en,
	g.order_index AS goal_order,
	o.id AS objective_id,
	o.title_nl AS objective_title_nl,
	o.title_en AS objective_title_en,
	o.description_nl AS objective_description_nl,
	o.description_en AS objective_description_en,
	o.order_index AS objective_order,
	kr.id AS key_result_id,
	kr.title_nl AS key_result_title_nl,
	kr.title_en AS key_result_title_en,
	kr.description_nl AS key_result_description_nl,
	kr.description_en AS key_result_description_en,
	kr.target_value AS key_result_target_value,
	kr.unit AS key_result_unit,
	kr.order_index AS key_result_order`

// Query renders the join over the four levels for the configured driver.
// PostgreSQL tables are schema qualified; sqlite has no schemas.
func Query(db config.DatabaseConfig) string {
	domainSchema, okrSchema := db.DomainSchema, db.OKRSchema
	if db.Driver == config.DriverSQLite {
		domainSchema, okrSchema = "", ""
	}

	return fmt.Sprintf(`SELECT %s
FROM %s ld
LEFT JOIN %s g ON g.life_domain_id = ld.id
LEFT JOIN %s o ON o.goal_id = g.id
LEFT JOIN %s kr ON kr.objective_id = o.id
ORDER BY
	ld.display_order ASC,
	g.order_index ASC NULLS LAST,
	o.order_index ASC NULLS LAST,
	kr.order_index ASC NULLS LAST`,
		selectColumns,
		qualify(domainSchema, tableLifeDomains),
		qualify(okrSchema, tableGoals),
		qualify(okrSchema, tableObjectives),
		qualify(okrSchema, tableKeyResults),
	)
}

func qualify(schema, table string) string {
	if schema == "" {
		return pgx.Identifier{table}.Sanitize()
	}
	return pgx.Identifier{schema, table}.Sanitize()
}
