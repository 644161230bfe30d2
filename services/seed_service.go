package services

import (
	"errors"
	"time"

	"BotAdmin/models"
	"BotAdmin/storage"
)

// SeedService loads the demo data set: an admin operator who is also a
// support agent, three sample clients with keyword rules. Running it twice is
// a no-op.
type SeedService struct {
	store storage.Store
}

func NewSeedService(store storage.Store) *SeedService {
	return &SeedService{store: store}
}

func (s *SeedService) Run() error {
	if _, err := s.store.GetUserByUsername("admin"); err == nil {
		return nil // already seeded
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	return s.store.Transaction(func(tx storage.Store) error {
		hash, err := HashPassword("admin123")
		if err != nil {
			return err
		}
		admin := &models.User{
			Username: "admin",
			Password: hash,
			Name:     "Admin",
			Email:    "admin@example.com",
			Role:     "admin",
		}
		if err := tx.CreateUser(admin); err != nil {
			return err
		}

		agent := &models.SupportAgent{
			UserID:      admin.ID,
			IsAvailable: true,
			LastActive:  time.Now(),
		}
		if err := tx.CreateSupportAgent(agent); err != nil {
			return err
		}

		samples := []struct {
			client    models.Client
			responses []models.CustomResponse
		}{
			{
				client: models.Client{
					Name:           "Loja Conceito",
					Category:       "E-commerce",
					IsActive:       true,
					PrimaryColor:   "#3B82F6",
					SecondaryColor: "#10B981",
					ChatTitle:      "Atendimento Loja Conceito",
					WelcomeMessage: "Olá! Bem-vindo à Loja Conceito. Como posso ajudar você hoje?",
					UserID:         admin.ID,
				},
				responses: []models.CustomResponse{
					{Keyword: "horario", Response: "Nosso horário de funcionamento é de segunda a sexta, das 9h às 18h, e aos sábados das 9h às 13h.", IsActive: true},
					{Keyword: "entrega", Response: "Realizamos entregas para todo o Brasil. O prazo médio é de 3 a 5 dias úteis, dependendo da sua localização.", IsActive: true},
				},
			},
			{
				client: models.Client{
					Name:           "Restaurante Sabor",
					Category:       "Alimentação",
					IsActive:       true,
					PrimaryColor:   "#10B981",
					SecondaryColor: "#3B82F6",
					ChatTitle:      "Atendimento Restaurante Sabor",
					WelcomeMessage: "Olá! Bem-vindo ao Restaurante Sabor. Como posso ajudar você hoje?",
					UserID:         admin.ID,
				},
				responses: []models.CustomResponse{
					{Keyword: "reserva", Response: "Para fazer uma reserva, por favor informe a data, horário e número de pessoas. Teremos prazer em atendê-lo!", IsActive: true},
				},
			},
			{
				client: models.Client{
					Name:           "Clínica Bem-Estar",
					Category:       "Saúde",
					IsActive:       true,
					PrimaryColor:   "#8B5CF6",
					SecondaryColor: "#3B82F6",
					ChatTitle:      "Atendimento Clínica Bem-Estar",
					WelcomeMessage: "Olá! Bem-vindo à Clínica Bem-Estar. Como posso ajudar você hoje?",
					UserID:         admin.ID,
				},
				responses: []models.CustomResponse{
					{Keyword: "agendamento", Response: "Para agendar uma consulta, por favor informe a especialidade médica desejada e suas preferências de data e horário.", IsActive: true},
				},
			},
		}

		for _, sample := range samples {
			client := sample.client
			if err := tx.CreateClient(&client); err != nil {
				return err
			}
			for _, response := range sample.responses {
				response.ClientID = client.ID
				if err := tx.CreateCustomResponse(&response); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
