package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamsDSN(t *testing.T) {
	p := Params{User: "survey", Pass: "s3cret", Host: "db.local", Port: "3306", Name: "pulse"}
	dsn := p.dsn()

	assert.Contains(t, dsn, "survey:s3cret@tcp(db.local:3306)/pulse")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestParamsDSNEmptyPassword(t *testing.T) {
	p := Params{User: "survey", Host: "localhost", Port: "3306", Name: "pulse"}
	assert.Contains(t, p.dsn(), "survey@tcp(localhost:3306)/pulse")
}
