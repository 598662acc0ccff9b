package dbroute

import (
	"strings"

	"github.com/juju/errors"
	"github.com/xwb1989/sqlparser"
)

// isProcedureCall EXEC/EXECUTE statements, which the parser does not know
func isProcedureCall(sql string) bool {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return false
	}
	verb := strings.ToUpper(fields[0])
	return verb == "EXEC" || verb == "EXECUTE"
}

// checkReadStatement rejects statements that would mutate a node from the read path.
// Procedure calls pass: a read procedure is indistinguishable from a write one by
// text, and the gateways only route read procedures here.
func checkReadStatement(sql string) error {
	if isProcedureCall(sql) {
		return nil
	}
	switch kind := sqlparser.Preview(sql); kind {
	case sqlparser.StmtInsert, sqlparser.StmtReplace, sqlparser.StmtUpdate,
		sqlparser.StmtDelete, sqlparser.StmtDDL, sqlparser.StmtSet:
		return errors.WithType(
			errors.Errorf("%s statement sent as a read", sqlparser.StmtType(kind)),
			ErrReadOnlyStatement)
	}
	return nil
}

// TableOf name of the table or view a single-source SELECT reads from
func TableOf(sql string) (string, error) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return "", errors.Annotatef(err, "parsing %q", sql)
	}
	sel, ok := stmt.(*sqlparser.Select)
	if !ok || len(sel.From) != 1 {
		return "", errors.NotSupportedf("statement %q", sql)
	}
	expr, ok := sel.From[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return "", errors.NotSupportedf("source of %q", sql)
	}
	name, ok := expr.Expr.(sqlparser.TableName)
	if !ok {
		return "", errors.NotSupportedf("source of %q", sql)
	}
	return name.Name.String(), nil
}
