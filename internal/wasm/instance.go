package wasm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	abi "github.com/woxQAQ/screeps-go/api/wasm"
)

// Guest exports the host looks up on instantiation.
var guestExports = []string{abi.ExportLoop, abi.ExportMalloc, abi.ExportFree}

// InstanceManager creates and manages module instances.
type InstanceManager struct {
	runtime   *Runtime
	logger    *zap.Logger
	hostFuncs *HostFunctions

	hostOnce sync.Once
	hostErr  error
}

// NewInstanceManager creates a new instance manager.
func NewInstanceManager(runtime *Runtime, hostFuncs *HostFunctions, logger *zap.Logger) *InstanceManager {
	return &InstanceManager{
		runtime:   runtime,
		hostFuncs: hostFuncs,
		logger:    logger.With(zap.String("component", "wasm-instance")),
	}
}

// InstanceConfig holds configuration for creating instances.
type InstanceConfig struct {
	// Module name to instantiate.
	ModuleName string

	// Instance ID (if empty, one is generated).
	InstanceID string

	// Additional exports to cache, e.g. a custom entry point.
	Exports []string
}

// Instance represents an instantiated Wasm module.
type Instance struct {
	// wazero module instance.
	module  api.Module
	runtime *Runtime

	// Instance metadata.
	ID        string
	Name      string
	CreatedAt int64

	// Exported functions (cached for performance).
	exports map[string]api.Function

	// Set while the instance holds a runtime slot.
	slot atomic.Bool
}

// Instantiate creates a new instance from a compiled module. The screeps
// host module is instantiated on first use so guests can import it.
func (m *InstanceManager) Instantiate(ctx context.Context, config *InstanceConfig) (*Instance, error) {
	compiled, ok := m.runtime.GetCompiledModule(config.ModuleName)
	if !ok {
		return nil, &ModuleNotFoundError{ModuleName: config.ModuleName}
	}

	if err := m.ensureHostModule(ctx); err != nil {
		return nil, err
	}

	if err := m.runtime.reserveInstance(); err != nil {
		return nil, err
	}

	instanceID := config.InstanceID
	if instanceID == "" {
		instanceID = generateInstanceID()
	}

	m.logger.Info("Instantiating Wasm module",
		zap.String("module", config.ModuleName),
		zap.String("instance_id", instanceID),
	)

	// Guests are reactors: no _start, the host drives exported functions.
	moduleConfig := wazero.NewModuleConfig().
		WithName(instanceID).
		WithStartFunctions()

	module, err := m.runtime.runtime.InstantiateModule(ctx, compiled.Module, moduleConfig)
	if err != nil {
		m.runtime.releaseInstance()
		return nil, &InstantiationError{
			ModuleName: config.ModuleName,
			InstanceID: instanceID,
			Err:        err,
		}
	}

	exports := cacheExportedFunctions(module, config.Exports)

	instance := &Instance{
		module:    module,
		runtime:   m.runtime,
		ID:        instanceID,
		Name:      config.ModuleName,
		CreatedAt: time.Now().Unix(),
		exports:   exports,
	}
	instance.slot.Store(true)

	m.runtime.StoreInstance(instanceID, instance)

	m.logger.Info("Module instantiated successfully",
		zap.String("instance_id", instanceID),
		zap.Int("exported_functions", len(exports)),
	)

	return instance, nil
}

// ensureHostModule instantiates the host module exactly once per runtime.
func (m *InstanceManager) ensureHostModule(ctx context.Context) error {
	m.hostOnce.Do(func() {
		if m.runtime.runtime.Module(HostModuleName) != nil {
			return
		}
		builder := m.runtime.runtime.NewHostModuleBuilder(HostModuleName)
		exportHostFunctions(builder, m.hostFuncs)
		if _, err := builder.Instantiate(ctx); err != nil {
			m.hostErr = fmt.Errorf("failed to instantiate host module: %w", err)
		}
	})
	return m.hostErr
}

// Close closes the instance and releases resources.
func (i *Instance) Close(ctx context.Context) error {
	if i.runtime != nil {
		i.runtime.DeleteInstance(i.ID)
		if i.slot.CompareAndSwap(true, false) {
			i.runtime.releaseInstance()
		}
	}
	return i.module.Close(ctx)
}

// Memory returns a helper over the instance's linear memory.
func (i *Instance) Memory() *Memory {
	return NewMemory(i.module)
}

// HasExport reports whether the guest exports the named function.
func (i *Instance) HasExport(name string) bool {
	return i.lookup(name) != nil
}

func (i *Instance) lookup(name string) api.Function {
	if fn, ok := i.exports[name]; ok {
		return fn
	}
	return i.module.ExportedFunction(name)
}

// Call invokes an exported function. When ctx carries a deadline that expires
// mid-call, the guest is interrupted and a TimeoutError is returned; the
// instance is unusable afterwards.
func (i *Instance) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	fn := i.lookup(name)
	if fn == nil {
		return nil, &FunctionNotFoundError{ModuleName: i.Name, FunctionName: name}
	}

	start := time.Now()
	results, err := fn.Call(ctx, params...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{FunctionName: name, Duration: time.Since(start)}
		}
		return nil, fmt.Errorf("call %s in %s: %w", name, i.Name, err)
	}
	return results, nil
}

// ParamCount returns the number of parameters the named export takes, or -1
// when it is missing.
func (i *Instance) ParamCount(name string) int {
	fn := i.lookup(name)
	if fn == nil {
		return -1
	}
	return len(fn.Definition().ParamTypes())
}

// cacheExportedFunctions caches references to exported functions.
func cacheExportedFunctions(module api.Module, extra []string) map[string]api.Function {
	exports := make(map[string]api.Function)
	for _, names := range [][]string{guestExports, extra} {
		for _, name := range names {
			if fn := module.ExportedFunction(name); fn != nil {
				exports[name] = fn
			}
		}
	}
	return exports
}

// exportHostFunctions registers Go functions for import by Wasm modules.
func exportHostFunctions(builder wazero.HostModuleBuilder, impl *HostFunctions) {
	builder.NewFunctionBuilder().
		WithFunc(impl.logMessage).
		WithParameterNames("level", "ptr", "length").
		Export(abi.ImportLogMessage)

	builder.NewFunctionBuilder().
		WithFunc(impl.objectIDToPacked).
		WithParameterNames("str_ptr", "str_len", "out_ptr").
		Export(abi.ImportObjectIDToPacked)

	builder.NewFunctionBuilder().
		WithFunc(impl.objectIDFromPacked).
		WithParameterNames("in_ptr", "out_ptr").
		Export(abi.ImportObjectIDFromPacked)

	builder.NewFunctionBuilder().
		WithFunc(impl.objectIDToString).
		WithParameterNames("in_ptr").
		Export(abi.ImportObjectIDToString)

	builder.NewFunctionBuilder().
		WithFunc(impl.posPack).
		WithParameterNames("room_x", "room_y", "x", "y").
		Export(abi.ImportPosPack)

	builder.NewFunctionBuilder().
		WithFunc(impl.posUnpack).
		WithParameterNames("packed", "out_ptr").
		Export(abi.ImportPosUnpack)

	builder.NewFunctionBuilder().
		WithFunc(impl.posToHost).
		WithParameterNames("packed").
		Export(abi.ImportPosToHost)

	builder.NewFunctionBuilder().
		WithFunc(impl.posFromHost).
		WithParameterNames("host_packed").
		Export(abi.ImportPosFromHost)

	builder.NewFunctionBuilder().
		WithFunc(impl.posStep).
		WithParameterNames("packed", "direction").
		Export(abi.ImportPosStep)

	builder.NewFunctionBuilder().
		WithFunc(impl.posRange).
		WithParameterNames("a", "b").
		Export(abi.ImportPosRange)

	builder.NewFunctionBuilder().
		WithFunc(impl.objectTrack).
		WithParameterNames("id_ptr", "id_len", "packed", "kind_ptr", "kind_len").
		Export(abi.ImportObjectTrack)
}

var instanceSeq atomic.Uint64

// generateInstanceID generates a process-unique instance ID.
func generateInstanceID() string {
	return fmt.Sprintf("inst-%d-%d", time.Now().UnixNano(), instanceSeq.Add(1))
}
