package api

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

type APIServer struct {
	app           *fiber.App
	listenAddress string
}

// NewAPIServer creates the Fiber app. bodyLimitMB caps upload size at the
// transport level; the PDF validator enforces the same limit with a
// friendlier error.
func NewAPIServer(listenAddress string, bodyLimitMB int) *APIServer {
	if bodyLimitMB < 1 {
		bodyLimitMB = 25
	}

	return &APIServer{
		app: fiber.New(fiber.Config{
			BodyLimit: bodyLimitMB * 1024 * 1024,
		}),
		listenAddress: listenAddress,
	}
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

func (s *APIServer) Run() error {
	log.Println("Starting API Server")
	log.Printf("Listening on %s", s.listenAddress)

	return s.app.Listen(s.listenAddress)
}
