package commands_test

import (
	"testing"

	"orderflow/internal/core/application/access"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransitionOrderCommand_ValidInput(t *testing.T) {
	orderID := kernel.NewUUID()
	cmd, err := commands.NewTransitionOrderCommand(orderID, order.StatusConfirmed, access.RoleSystem)
	require.NoError(t, err)
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, order.StatusConfirmed, cmd.Target())
	assert.Equal(t, access.RoleSystem, cmd.Role())
}

func TestNewTransitionOrderCommand_RoleMayNotDriveEdge(t *testing.T) {
	_, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), order.StatusConfirmed, access.RoleCustomer)
	require.ErrorIs(t, err, errs.ErrAuthorization)

	_, err = commands.NewTransitionOrderCommand(kernel.NewUUID(), order.StatusPreparing, access.RoleCourier)
	require.ErrorIs(t, err, errs.ErrAuthorization)
}

func TestNewTransitionOrderCommand_CourierEdgesAreCascadeOnly(t *testing.T) {
	// No role may request PICKED_UP or DELIVERED directly, not even system.
	for _, role := range []access.Role{access.RoleCourier, access.RoleSystem} {
		_, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), order.StatusPickedUp, role)
		require.ErrorIs(t, err, errs.ErrAuthorization)

		_, err = commands.NewTransitionOrderCommand(kernel.NewUUID(), order.StatusDelivered, role)
		require.ErrorIs(t, err, errs.ErrAuthorization)
	}
}

func TestNewTransitionOrderCommand_UnknownRole(t *testing.T) {
	_, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), order.StatusConfirmed, access.Role("admin"))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
