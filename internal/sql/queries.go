package sql

import (
	"embed"
)

//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/insert_enrollment_event.sql
var InsertEnrollmentEvent string

//go:embed queries/last_confirmation.sql
var LastConfirmation string

//go:embed queries/run_events.sql
var RunEvents string
