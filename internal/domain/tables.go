package domain

// Tables lists every model migrated at startup
var Tables = []interface{}{
	&Product{},
}
