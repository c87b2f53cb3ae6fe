package auth

import "talentlink_backend/internal/models"

// Actor - типизированная идентичность вызывающего запроса.
// Извлекается из токена один раз в middleware и передается в сервисы
// явным аргументом, а не через глобальный контекст.
type Actor struct {
	ID   string
	Role models.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.UserRoleAdmin
}

func (a Actor) IsClient() bool {
	return a.Role == models.UserRoleClient
}

func (a Actor) IsFreelancer() bool {
	return a.Role == models.UserRoleFreelancer
}
