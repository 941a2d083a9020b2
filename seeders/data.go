package seeders

import "support-system/pkg/constants"

type seedUser struct {
	Email    string
	FullName string
	Role     string
}

var demoUsers = []seedUser{
	{Email: "admin@greenhouse.local", FullName: "Administrador GHP", Role: constants.RoleAdmin},
	{Email: "ingeniero@greenhouse.local", FullName: "Luis Gómez", Role: constants.RoleEngineer},
	{Email: "cliente@greenhouse.local", FullName: "Ana Pérez", Role: constants.RoleClient},
}

type seedTicket struct {
	Title       string
	Description string
	Status      string
	Priority    string
	Category    string
	ProjectID   string
	Assigned    bool
}

var demoTickets = []seedTicket{
	{"Falla en bomba de riego", "La bomba del sector norte no arranca", constants.StatusNew, constants.PriorityHigh, "Mecánico", "P-100", false},
	{"Corte de energía en invernadero 2", "Sin energía desde la madrugada", constants.StatusAssigned, constants.PriorityCritical, "Eléctrico", "P-100", true},
	{"Sensor de humedad descalibrado", "Lecturas por encima del 100%", constants.StatusInProgress, constants.PriorityMedium, "Rendimiento", "P-200", true},
	{"Ventilador ruidoso", "Ruido metálico al encender", constants.StatusWaiting, constants.PriorityLow, "Mecánico", "P-200", true},
	{"Consulta sobre reportes", "¿Cómo exporto el historial?", constants.StatusResolved, constants.PriorityLow, "Otro", "P-300", false},
	{"Tablero eléctrico con humedad", "Condensación dentro del tablero", constants.StatusClosed, constants.PriorityHigh, "Eléctrico", "P-300", true},
}
