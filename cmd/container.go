// container.go
package main

import (
	"context"
	"fmt"

	"github.com/Abraxas-365/hireflow/pkg/ai/llm"
	aiopenai "github.com/Abraxas-365/hireflow/pkg/ai/providers/openai"
	"github.com/Abraxas-365/hireflow/pkg/config"
	"github.com/Abraxas-365/hireflow/pkg/fsx"
	"github.com/Abraxas-365/hireflow/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/hireflow/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/hireflow/pkg/logx"
	"github.com/Abraxas-365/hireflow/pkg/notify"
	"github.com/Abraxas-365/hireflow/pkg/notify/notifyinfra"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/availability"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/availability/availabilityapi"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/availability/availabilityinfra"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/insight"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/proposal"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/proposal/proposalapi"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/proposal/proposalinfra"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/proposal/proposalsrv"
	"github.com/Abraxas-365/hireflow/pkg/talent/candidate"
	"github.com/Abraxas-365/hireflow/pkg/talent/candidate/candidateapi"
	"github.com/Abraxas-365/hireflow/pkg/talent/candidate/candidateinfra"
	"github.com/Abraxas-365/hireflow/pkg/talent/candidate/candidatesrv"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	S3Client   *s3.Client

	// Repositories & Stores
	ProposalRepo  proposal.Repository
	Agenda        availability.Store
	CandidateRepo candidate.Repository
	Dispatcher    notify.Dispatcher

	// Services
	SchedulingService *proposalsrv.SchedulingService
	CandidateService  *candidatesrv.CandidateService
	InsightService    *insight.Service

	// API Handlers
	ProposalHandlers     *proposalapi.ProposalHandlers
	AvailabilityHandlers *availabilityapi.AvailabilityHandlers
	CandidateHandlers    *candidateapi.CandidateHandlers

	// Background Services
	ExpirySweeper *proposalsrv.ExpirySweeper
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing dependency container...")

	c := &Container{
		Config: cfg,
	}

	c.initInfrastructure()
	c.initServices()

	logx.Info("✅ Container initialized successfully")
	return c
}

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")

	// 1. Database Connection
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Config.Database.Host,
		c.Config.Database.Port,
		c.Config.Database.User,
		c.Config.Database.Password,
		c.Config.Database.Name,
		c.Config.Database.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	logx.Info("✅ Database connected")

	// 2. Redis Connection (event bus de transiciones)
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Address(),
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Warnf("⚠️  Redis unavailable, transition events will use in-memory dispatcher: %v", err)
		c.Dispatcher = notifyinfra.NewMemoryDispatcher()
	} else {
		logx.Info("✅ Redis connected")
		c.Dispatcher = notifyinfra.NewRedisPublisher(c.Redis, c.Config.Scheduling.EventsChannel)
	}

	// 3. File Storage Configuration (Local or S3)
	c.initFileStorage()

	logx.Info("✅ Infrastructure initialized")
}

func (c *Container) initFileStorage() {
	switch c.Config.Storage.Mode {
	case "s3":
		cfg, err := awsConfig.LoadDefaultConfig(context.TODO(), awsConfig.WithRegion(c.Config.Storage.AWSRegion))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		c.S3Client = s3.NewFromConfig(cfg)
		c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, c.Config.Storage.AWSBucket, "")
		logx.Infof("✅ S3 file system configured (bucket: %s, region: %s)",
			c.Config.Storage.AWSBucket, c.Config.Storage.AWSRegion)

	case "local":
		localFS, err := fsxlocal.NewLocalFileSystem(c.Config.Storage.LocalDir)
		if err != nil {
			logx.Fatalf("Failed to initialize local file system: %v", err)
		}
		c.FileSystem = localFS
		logx.Infof("✅ Local file system configured (path: %s)", localFS.GetBasePath())

	default:
		logx.Fatalf("Unknown STORAGE_MODE: %s (use 'local' or 's3')", c.Config.Storage.Mode)
	}
}

func (c *Container) initServices() {
	logx.Info("🗄️  Initializing repositories and services...")

	// --- Repositories & Stores ---
	c.ProposalRepo = proposalinfra.NewPostgresProposalRepository(c.DB)
	c.Agenda = availabilityinfra.NewPostgresStore(c.DB)
	c.CandidateRepo = candidateinfra.NewPostgresCandidateRepository(c.DB)

	// --- AI (optional) ---
	var insights proposalsrv.InsightGenerator
	if c.Config.AI.Enabled {
		provider := aiopenai.NewOpenAIProvider(c.Config.AI.APIKey)
		c.InsightService = insight.NewService(llm.NewClient(provider), c.Config.AI.Model)
		insights = c.InsightService
		logx.Infof("✅ Feedback digests enabled (model: %s)", c.Config.AI.Model)
	} else {
		logx.Info("ℹ️  Feedback digests disabled")
	}

	// --- Services ---
	c.SchedulingService = proposalsrv.NewSchedulingService(
		c.ProposalRepo,
		c.Agenda,
		c.CandidateRepo,
		c.Dispatcher,
		insights,
		proposalsrv.Options{
			MaxProposedSlots:       c.Config.Scheduling.MaxProposedSlots,
			MaxProposedModes:       c.Config.Scheduling.MaxProposedModes,
			DefaultDurationMinutes: c.Config.Scheduling.DefaultDurationMinutes,
		},
	)
	c.CandidateService = candidatesrv.NewCandidateService(
		c.CandidateRepo,
		c.FileSystem,
		c.Config.Storage.SignedURLTTL,
	)

	// --- API Handlers ---
	c.ProposalHandlers = proposalapi.NewProposalHandlers(c.SchedulingService)
	c.AvailabilityHandlers = availabilityapi.NewAvailabilityHandlers(c.Agenda)
	c.CandidateHandlers = candidateapi.NewCandidateHandlers(c.CandidateService)

	// --- Background Services ---
	c.ExpirySweeper = proposalsrv.NewExpirySweeper(c.SchedulingService, c.Config.Scheduling.SweepInterval)

	logx.Info("✅ All services and handlers initialized")
}

// StartBackgroundServices starts the expiry sweep loop
func (c *Container) StartBackgroundServices(ctx context.Context) {
	logx.Info("🔄 Starting background services...")

	go c.ExpirySweeper.Start(ctx)

	logx.Infof("✅ Expiry sweeper started (interval: %s)", c.Config.Scheduling.SweepInterval)
}

// Cleanup closes all connections
func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.SchedulingService != nil {
		c.SchedulingService.WaitForDigests()
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("✅ Database connection closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup completed")
}
