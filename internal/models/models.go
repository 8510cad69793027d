package models

// All AutoMigrate ve testler için tüm tablolar
func All() []any {
	return []any{
		&User{},
		&Grade{},
		&Subject{},
		&Chapter{},
		&Worksheet{},
		&WorksheetCompletion{},
		&Package{},
		&SubjectPurchase{},
		&PackagePurchase{},
		&Coupon{},
		&PassProduct{},
		&SessionPass{},
		&LiveSession{},
		&LiveBooking{},
	}
}
