package worker

const workerColumns = `worker_id, name, username, password_hash, is_super_admin, status, created_at`

const getWorkerSQL = `
SELECT worker_id, name, username, password_hash, is_super_admin, status, created_at
FROM worker
WHERE worker_id = ?
`

const getWorkerByUsernameSQL = `
SELECT worker_id, name, username, password_hash, is_super_admin, status, created_at
FROM worker
WHERE LOWER(username) = ?
`

const createWorkerSQL = `
INSERT INTO worker (
    worker_id, name, username, password_hash, is_super_admin, status, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?)
`

const updateWorkerSQL = `
UPDATE worker
SET name = ?, username = ?, status = ?
WHERE worker_id = ?
`

const setPasswordSQL = `
UPDATE worker
SET password_hash = ?
WHERE worker_id = ?
`

const deleteWorkerSQL = `
DELETE FROM worker
WHERE worker_id = ?
`

const countWorkersSQL = `
SELECT COUNT(*) FROM worker
`
