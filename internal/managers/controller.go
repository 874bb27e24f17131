// Package managers starts and supervises the long running controllers.
package managers

import (
	"context"
	"fmt"
	"sync"

	"github.com/chrissnell/eukleides/internal/controllers/restserver"
	"github.com/chrissnell/eukleides/pkg/config"
	"go.uber.org/zap"
)

// ControllerManager interface for the controller manager
type ControllerManager interface {
	StartControllers() error
}

// Controller is an interface that provides standard methods for various controller backends
type Controller interface {
	StartController() error
}

// NewControllerManager creates a new controller manager
func NewControllerManager(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, logger *zap.SugaredLogger) (ControllerManager, error) {
	cm := &controllerManager{
		ctx:            ctx,
		wg:             wg,
		configProvider: configProvider,
		logger:         logger,
		controllers:    make([]Controller, 0),
	}

	for _, name := range []string{"restserver"} {
		controller, err := cm.createController(name)
		if err != nil {
			return nil, fmt.Errorf("error creating controller: %w", err)
		}
		cm.controllers = append(cm.controllers, controller)
	}

	return cm, nil
}

type controllerManager struct {
	ctx            context.Context
	wg             *sync.WaitGroup
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
	controllers    []Controller
}

func (c *controllerManager) StartControllers() error {
	c.logger.Info("Starting controller manager...")

	for _, controller := range c.controllers {
		err := controller.StartController()
		if err != nil {
			return fmt.Errorf("error starting controller: %w", err)
		}
	}

	c.logger.Infof("Started %d controllers successfully", len(c.controllers))
	return nil
}

// createController creates a controller by name
func (cm *controllerManager) createController(name string) (Controller, error) {
	switch name {
	case "restserver", "rest":
		return restserver.NewController(cm.ctx, cm.wg, cm.configProvider, cm.logger)
	default:
		return nil, fmt.Errorf("unknown controller type: %s", name)
	}
}
