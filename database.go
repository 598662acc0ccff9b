package dbroute

import (
	"gorm.io/gorm"
)

// One physical connection per node, no pooling beyond that.
const (
	nodeMaxOpenConns = 1
	nodeMaxIdleConns = 1
)

func pinConnPool(connPool gorm.ConnPool) {
	setMaxOpenConns(connPool, nodeMaxOpenConns)
	setMaxIdleConns(connPool, nodeMaxIdleConns)
}

func setMaxOpenConns(connPool gorm.ConnPool, maxOpen int) {
	if maxOpen != 0 {
		if conn, ok := connPool.(interface{ SetMaxOpenConns(int) }); ok {
			conn.SetMaxOpenConns(maxOpen)
		}
	}
}

func setMaxIdleConns(connPool gorm.ConnPool, maxIdleConns int) {
	if maxIdleConns != 0 {
		if conn, ok := connPool.(interface{ SetMaxIdleConns(int) }); ok {
			conn.SetMaxIdleConns(maxIdleConns)
		}
	}
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
