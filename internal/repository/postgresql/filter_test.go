package postgresql

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWhere_AttendanceFilter(t *testing.T) {
	identifier := "alice123456"
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 999_000_000, time.UTC)

	filter := pagination.NewFilter().
		Equal(attendance.FieldEmployeeIdentifier, &identifier).
		Range(attendance.FieldCreatedAt, &from, &to)

	where, args, err := buildWhere(filter, attendanceColumns, nil)
	require.NoError(t, err)

	assert.Equal(t, " WHERE e.employee_identifier = $1 AND a.created_at BETWEEN $2 AND $3", where)
	assert.Equal(t, []interface{}{"alice123456", from, to}, args)
}

func TestBuildWhere_OpenEndedRanges(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var none *time.Time

	where, args, err := buildWhere(pagination.NewFilter().Range(attendance.FieldCreatedAt, &from, none), attendanceColumns, nil)
	require.NoError(t, err)
	assert.Equal(t, " WHERE a.created_at >= $1", where)
	assert.Equal(t, []interface{}{from}, args)

	where, _, err = buildWhere(pagination.NewFilter().Range(attendance.FieldCreatedAt, none, &from), attendanceColumns, nil)
	require.NoError(t, err)
	assert.Equal(t, " WHERE a.created_at <= $1", where)
}

func TestBuildWhere_EmptyFilter(t *testing.T) {
	where, args, err := buildWhere(nil, attendanceColumns, nil)
	require.NoError(t, err)
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildWhere_SearchSharesPlaceholder(t *testing.T) {
	active := true
	term := "50%_off"

	filter := pagination.NewFilter().
		Equal(employee.FieldActive, &active).
		Search(&term, employee.FieldFirstName, employee.FieldEmail)

	where, args, err := buildWhere(filter, employeeColumns, nil)
	require.NoError(t, err)

	assert.Equal(t, " WHERE active = $1 AND (first_name ILIKE $2 OR email ILIKE $2)", where)
	assert.Equal(t, []interface{}{true, `%50\%\_off%`}, args)
}

func TestBuildWhere_RejectsUnknownField(t *testing.T) {
	filter := pagination.NewFilter().Equal("password_hash", "x")

	_, _, err := buildWhere(filter, employeeColumns, nil)
	assert.Error(t, err)
}

func TestBuildOrderByAndLimit(t *testing.T) {
	orderBy, err := buildOrderBy(nil, attendanceColumns, "a.created_at DESC")
	require.NoError(t, err)
	assert.Equal(t, " ORDER BY a.created_at DESC", orderBy)

	orderBy, err = buildOrderBy([]pagination.Order{{Field: attendance.FieldCheckInTime, Direction: pagination.Asc}}, attendanceColumns, "")
	require.NoError(t, err)
	assert.Equal(t, " ORDER BY a.check_in_time ASC", orderBy)

	limit, args := buildLimit(pagination.Query{Take: 10, Skip: 20}, []interface{}{"x"})
	assert.Equal(t, " LIMIT $2 OFFSET $3", limit)
	assert.Equal(t, []interface{}{"x", 10, 20}, args)

	limit, args = buildLimit(pagination.Query{}, nil)
	assert.Empty(t, limit)
	assert.Empty(t, args)
}
