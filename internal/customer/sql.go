package customer

const customerColumns = `customer_id, name, address, phone, point, status, created_at`

const getCustomerSQL = `
SELECT customer_id, name, address, phone, point, status, created_at
FROM customer
WHERE customer_id = ?
`

const createCustomerSQL = `
INSERT INTO customer (
    customer_id, name, address, phone, point, status, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?)
`

const updateCustomerSQL = `
UPDATE customer
SET name = ?, address = ?, phone = ?, status = ?
WHERE customer_id = ?
`

const deleteCustomerSQL = `
DELETE FROM customer
WHERE customer_id = ?
`

const customerExistsSQL = `
SELECT EXISTS(
    SELECT 1 FROM customer WHERE customer_id = ?
)
`

// swapPointsSQL only writes when the stored balance still equals the one
// the caller read.
const swapPointsSQL = `
UPDATE customer
SET point = ?
WHERE customer_id = ? AND point = ?
`

const statsSQL = `
SELECT
    COUNT(*) AS total_customers,
    COALESCE(SUM(CASE WHEN status THEN 1 ELSE 0 END), 0) AS active_customers,
    COALESCE(SUM(point), 0) AS total_points,
    COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0) AS new_this_month
FROM customer
`

const topCustomersSQL = `
SELECT customer_id, name, address, phone, point, status, created_at
FROM customer
WHERE status = ?
ORDER BY point DESC, name
LIMIT ?
`
