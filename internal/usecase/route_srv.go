package usecase

import (
	"context"
	"fmt"
	"time"

	"school-transport/internal/data/entity"
	"school-transport/internal/data/repository"
	"school-transport/internal/dto/request"
	"school-transport/internal/dto/response"
	"school-transport/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RouteService interface {
	// Parent-facing
	GetActiveRoutes(ctx context.Context) ([]response.RouteResponse, error)
	GetRouteByID(ctx context.Context, routeID string) (*response.RouteResponse, error)

	// Admin-facing
	CreateRoute(ctx context.Context, req *request.CreateRouteRequest) (*response.RouteResponse, error)
	UpdateRoute(ctx context.Context, routeID string, req *request.UpdateRouteRequest) (*response.RouteResponse, error)
	AddPickupPoint(ctx context.Context, routeID string, req *request.CreatePickupPointRequest) (*response.PickupPointResponse, error)
	RemovePickupPoint(ctx context.Context, routeID, pointID string) error

	// Driver-facing
	GetDriverRoutes(ctx context.Context, driverID string) ([]response.RouteResponse, error)
}

type routeService struct {
	routes   repository.RouteRepository
	points   repository.PickupPointRepository
	users    repository.UserRepository
	capacity CapacityService
	log      *zap.Logger
}

func NewRouteService(
	routes repository.RouteRepository,
	points repository.PickupPointRepository,
	users repository.UserRepository,
	capacity CapacityService,
	log *zap.Logger,
) RouteService {
	return &routeService{
		routes:   routes,
		points:   points,
		users:    users,
		capacity: capacity,
		log:      log.With(zap.String("service", "route")),
	}
}

func (s *routeService) GetActiveRoutes(ctx context.Context) ([]response.RouteResponse, error) {
	routes, err := s.routes.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("get active routes: %w", err)
	}

	responses := make([]response.RouteResponse, len(routes))
	for i, route := range routes {
		responses[i] = s.buildRouteResponse(ctx, route)
	}
	return responses, nil
}

func (s *routeService) GetRouteByID(ctx context.Context, routeID string) (*response.RouteResponse, error) {
	route, err := s.findRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}

	resp := s.buildRouteResponse(ctx, route)
	return &resp, nil
}

func (s *routeService) CreateRoute(ctx context.Context, req *request.CreateRouteRequest) (*response.RouteResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	route := &entity.Route{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:     req.Name,
		Capacity: req.Capacity,
		IsActive: true,
	}

	if req.VehicleType != nil {
		vt := entity.VehicleType(*req.VehicleType)
		route.VehicleType = &vt
	}

	if req.DriverID != nil {
		driverID, err := s.resolveDriver(ctx, *req.DriverID)
		if err != nil {
			return nil, err
		}
		route.DriverID = driverID
	}

	if err := s.routes.Create(ctx, route); err != nil {
		s.log.Error("Failed to create route", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("create route: %w", err)
	}

	s.log.Info("Route created",
		zap.String("route_id", route.ID.String()),
		zap.Int("capacity", route.Capacity),
	)

	resp := s.buildRouteResponse(ctx, route)
	return &resp, nil
}

func (s *routeService) UpdateRoute(ctx context.Context, routeID string, req *request.UpdateRouteRequest) (*response.RouteResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	route, err := s.findRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}

	route.Name = req.Name
	route.Capacity = req.Capacity
	route.IsActive = req.IsActive
	route.UpdatedAt = time.Now()

	route.VehicleType = nil
	if req.VehicleType != nil {
		vt := entity.VehicleType(*req.VehicleType)
		route.VehicleType = &vt
	}

	route.DriverID = nil
	if req.DriverID != nil {
		driverID, err := s.resolveDriver(ctx, *req.DriverID)
		if err != nil {
			return nil, err
		}
		route.DriverID = driverID
	}

	if err := s.routes.Update(ctx, route); err != nil {
		return nil, fmt.Errorf("update route: %w", err)
	}

	resp := s.buildRouteResponse(ctx, route)
	return &resp, nil
}

func (s *routeService) AddPickupPoint(ctx context.Context, routeID string, req *request.CreatePickupPointRequest) (*response.PickupPointResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	route, err := s.findRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	point := &entity.PickupPoint{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RouteID:   route.ID,
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	if err := s.points.Create(ctx, point); err != nil {
		return nil, fmt.Errorf("create pickup point: %w", err)
	}

	resp := response.PickupPointToResponse(point)
	return &resp, nil
}

func (s *routeService) RemovePickupPoint(ctx context.Context, routeID, pointID string) error {
	route, err := s.findRoute(ctx, routeID)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(pointID)
	if err != nil {
		return fmt.Errorf("invalid pickup point ID format %s: %w", pointID, err)
	}

	point, err := s.points.FindByID(ctx, id)
	if err != nil || point == nil {
		return fmt.Errorf("pickup point %s not found", pointID)
	}
	if point.RouteID != route.ID {
		return fmt.Errorf("pickup point %s not on route %s", pointID, routeID)
	}

	return s.points.Delete(ctx, id)
}

func (s *routeService) GetDriverRoutes(ctx context.Context, driverID string) ([]response.RouteResponse, error) {
	id, err := uuid.Parse(driverID)
	if err != nil {
		return nil, fmt.Errorf("invalid driver ID format %s: %w", driverID, err)
	}

	routes, err := s.routes.FindByDriverID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get driver routes: %w", err)
	}

	responses := make([]response.RouteResponse, len(routes))
	for i, route := range routes {
		responses[i] = s.buildRouteResponse(ctx, route)
	}
	return responses, nil
}

// ==================== HELPER METHODS ====================

func (s *routeService) findRoute(ctx context.Context, routeID string) (*entity.Route, error) {
	id, err := uuid.Parse(routeID)
	if err != nil {
		return nil, fmt.Errorf("invalid route ID format %s: %w", routeID, err)
	}

	route, err := s.routes.FindByID(ctx, id)
	if err != nil || route == nil {
		return nil, fmt.Errorf("route %s not found", routeID)
	}

	return route, nil
}

func (s *routeService) resolveDriver(ctx context.Context, driverID string) (*uuid.UUID, error) {
	id, err := uuid.Parse(driverID)
	if err != nil {
		return nil, fmt.Errorf("invalid driver ID format %s: %w", driverID, err)
	}

	driver, err := s.users.FindByID(ctx, id)
	if err != nil || driver == nil {
		return nil, fmt.Errorf("driver %s not found", driverID)
	}
	if driver.Role != entity.RoleDriver {
		return nil, fmt.Errorf("user %s is not a driver", driverID)
	}

	return &id, nil
}

// buildRouteResponse reports seats available as of today; occupancy
// errors degrade to a full-looking route rather than failing the read.
func (s *routeService) buildRouteResponse(ctx context.Context, route *entity.Route) response.RouteResponse {
	occupied, err := s.capacity.Occupancy(ctx, route, time.Now())
	if err != nil {
		s.log.Warn("Failed to count occupancy",
			zap.Error(err),
			zap.String("route_id", route.ID.String()),
		)
		occupied = int64(route.Capacity)
	}

	resp := response.RouteToResponse(route, occupied)

	points, err := s.points.FindByRouteID(ctx, route.ID)
	if err == nil {
		resp.PickupPoints = make([]response.PickupPointResponse, len(points))
		for i, point := range points {
			resp.PickupPoints[i] = response.PickupPointToResponse(point)
		}
	}

	return resp
}
