package entity

type School struct {
	Base
	Name string `db:"name"`
	City string `db:"city"`
}
