package registry

import (
	"context"
	"sort"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ModuleContext 模块初始化所需的上下文
type ModuleContext struct {
	Client *mongo.Client
	DB     *mongo.Database
	Router *gin.Engine

	// Auth 由 user 模块设置，后续模块用它保护写接口
	Auth gin.HandlerFunc
}

// Module 模块接口
type Module interface {
	// Name 返回模块名称
	Name() string

	// Init 初始化模块（依赖注入、路由注册等）
	Init(ctx *ModuleContext) error

	// Priority 返回初始化优先级（数字越小越先初始化）
	// user 模块必须先于 post 模块，后者依赖 ctx.Auth
	Priority() int
}

// IndexedModule is implemented by modules that own collections with indexes.
type IndexedModule interface {
	EnsureIndexes(ctx context.Context) error
}

// moduleRegistry 全局模块注册表
var moduleRegistry = make(map[string]Module)

// Register 注册模块
func Register(module Module) {
	moduleRegistry[module.Name()] = module
}

// GetModules 获取所有已注册的模块
func GetModules() map[string]Module {
	return moduleRegistry
}

// Ordered returns the registered modules sorted by priority, then name.
func Ordered() []Module {
	modules := make([]Module, 0, len(moduleRegistry))
	for _, m := range moduleRegistry {
		modules = append(modules, m)
	}
	sort.SliceStable(modules, func(i, j int) bool {
		if modules[i].Priority() != modules[j].Priority() {
			return modules[i].Priority() < modules[j].Priority()
		}
		return modules[i].Name() < modules[j].Name()
	})
	return modules
}

// InitModules 按优先级初始化所有模块
func InitModules(ctx *ModuleContext) error {
	for _, module := range Ordered() {
		if err := module.Init(ctx); err != nil {
			return err
		}
	}
	return nil
}

// EnsureIndexes creates indexes for every module that declares them. A failure
// is reported to onErr and does not stop the remaining modules.
func EnsureIndexes(ctx context.Context, onErr func(name string, err error)) {
	for _, module := range Ordered() {
		im, ok := module.(IndexedModule)
		if !ok {
			continue
		}
		if err := im.EnsureIndexes(ctx); err != nil && onErr != nil {
			onErr(module.Name(), err)
		}
	}
}
