package authz

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"

	"support-system/internal/entities"
	"support-system/pkg/constants"
)

func TestCanDo_TicketScopes(t *testing.T) {
	own := &entities.Ticket{ClientID: "client-1", AssignedTo: null.StringFrom("eng-1")}
	unassigned := &entities.Ticket{ClientID: "client-2"}

	tests := []struct {
		name       string
		ctx        Context
		permission string
		target     *entities.Ticket
		want       bool
	}{
		{"admin deletes any", NewContext("admin-1", constants.RoleAdmin), TicketsDelete, own, true},
		{"engineer cannot delete", NewContext("eng-1", constants.RoleEngineer), TicketsDelete, own, false},
		{"client cannot delete", NewContext("client-1", constants.RoleClient), TicketsDelete, own, false},
		{"client views own", NewContext("client-1", constants.RoleClient), TicketsView, own, true},
		{"client cannot view foreign", NewContext("client-1", constants.RoleClient), TicketsView, unassigned, false},
		{"engineer views any", NewContext("eng-2", constants.RoleEngineer), TicketsView, own, true},
		{"engineer updates assigned", NewContext("eng-1", constants.RoleEngineer), TicketsUpdate, own, true},
		{"engineer updates unassigned", NewContext("eng-2", constants.RoleEngineer), TicketsUpdate, unassigned, true},
		{"engineer cannot update foreign", NewContext("eng-2", constants.RoleEngineer), TicketsUpdate, own, false},
		{"engineer assigns unassigned", NewContext("eng-2", constants.RoleEngineer), TicketsAssign, unassigned, true},
		{"engineer cannot reassign foreign", NewContext("eng-2", constants.RoleEngineer), TicketsAssign, own, false},
		{"client cannot assign", NewContext("client-1", constants.RoleClient), TicketsAssign, own, false},
		{"client changes status of own", NewContext("client-1", constants.RoleClient), TicketsStatus, own, true},
		{"client cannot change foreign status", NewContext("client-1", constants.RoleClient), TicketsStatus, unassigned, false},
		{"unknown role", NewContext("x", "guest"), TicketsView, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanDo(tt.permission, tt.ctx.WithTarget(tt.target)))
		})
	}
}

func TestFieldPermissions(t *testing.T) {
	client := NewContext("c", constants.RoleClient)
	engineer := NewContext("e", constants.RoleEngineer)
	admin := NewContext("a", constants.RoleAdmin)

	assert.True(t, client.HasPermission(FieldTitle))
	assert.True(t, client.HasPermission(FieldDescription))
	assert.False(t, client.HasPermission(FieldPriority))
	assert.False(t, engineer.HasPermission(FieldTitle))
	assert.True(t, engineer.HasPermission(FieldCategory))
	for _, f := range []string{FieldTitle, FieldDescription, FieldPriority, FieldCategory} {
		assert.True(t, admin.HasPermission(f), f)
	}
}

func TestListScope(t *testing.T) {
	assert.Equal(t, entities.TicketScope{}, ListScope(NewContext("a", constants.RoleAdmin), false))
	assert.Equal(t, entities.TicketScope{ClientID: "c"}, ListScope(NewContext("c", constants.RoleClient), true))
	assert.Equal(t, entities.TicketScope{EngineerID: "e"}, ListScope(NewContext("e", constants.RoleEngineer), false))
	assert.Equal(t, entities.TicketScope{}, ListScope(NewContext("e", constants.RoleEngineer), true))
}

func TestCanSetStatus(t *testing.T) {
	client := NewContext("c", constants.RoleClient)
	engineer := NewContext("e", constants.RoleEngineer)

	assert.True(t, CanSetStatus(client, constants.StatusWaiting))
	assert.True(t, CanSetStatus(client, constants.StatusClosed))
	assert.False(t, CanSetStatus(client, constants.StatusResolved))
	assert.False(t, CanSetStatus(client, constants.StatusInProgress))
	assert.True(t, CanSetStatus(engineer, constants.StatusResolved))
	assert.False(t, CanSetStatus(NewContext("x", "guest"), constants.StatusClosed))
}
