package pg

import (
	"fmt"
	"strings"
)

// setBuilder arma la lista de cláusulas SET de un update parcial.
// Cada campo presente agrega "col = $n" con su argumento; los valores
// viajan siempre como parámetros, nunca concatenados en el SQL.
type setBuilder struct {
	clauses []string
	args    []any
}

// add agrega una cláusula SET parametrizada.
func (b *setBuilder) add(col string, val any) {
	b.args = append(b.args, val)
	b.clauses = append(b.clauses, fmt.Sprintf("%s = $%d", col, len(b.args)))
}

// addRaw agrega una cláusula sin parámetro (p.ej. "updated_at = NOW()").
func (b *setBuilder) addRaw(clause string) {
	b.clauses = append(b.clauses, clause)
}

// empty indica si no hay ningún campo parametrizado para actualizar.
func (b *setBuilder) empty() bool { return len(b.args) == 0 }

// query arma el UPDATE final. where usa el siguiente índice de parámetro
// disponible para el argumento whereArg.
func (b *setBuilder) query(table, whereCol string, whereArg any, returning string) (string, []any) {
	b.args = append(b.args, whereArg)
	q := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = $%d",
		table, strings.Join(b.clauses, ", "), whereCol, len(b.args),
	)
	if returning != "" {
		q += " RETURNING " + returning
	}
	return q, b.args
}
