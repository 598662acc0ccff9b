package dbroute

import (
	"gorm.io/gorm"
)

const markCallbackName = "dbroute:mark_node"

// registerCallbacks marks every raw statement run on db with its node, for tracing.
// Only Raw and Row are used by Connection: procedure calls never go through
// gorm's model callbacks.
func registerCallbacks(db *gorm.DB, node string) error {
	mark := func(db *gorm.DB) {
		markStmtNode(db.Statement, node)
	}
	if err := db.Callback().Row().Before("*").Register(markCallbackName, mark); err != nil {
		return err
	}
	return db.Callback().Raw().Before("*").Register(markCallbackName, mark)
}
