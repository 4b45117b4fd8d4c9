package activitylog

const createEntrySQL = `
INSERT INTO activity_log (
    log_id, customer_id, worker_id, note, created_at
) VALUES (?, ?, ?, ?, ?)
`

var entryColumns = []string{
	"l.log_id",
	"l.customer_id",
	"l.worker_id",
	"l.note",
	"l.created_at",
	"c.name AS customer_name",
	"w.name AS worker_name",
}

const entryFrom = `activity_log l`
const joinCustomer = `customer c ON c.customer_id = l.customer_id`
const joinWorker = `worker w ON w.worker_id = l.worker_id`
