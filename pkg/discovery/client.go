package discovery

import (
	"github.com/relgraph/relgraph/internal/util"
	"github.com/relgraph/relgraph/pkg/config"
	"github.com/relgraph/relgraph/pkg/logger"
	"github.com/relgraph/relgraph/pkg/logger/console"
)

// Client is the main entry point for running cross-document relationship
// discovery. It manages document processing parallelism and the scoring
// configuration shared by all pipeline stages.
//
// A Client should be created using NewClient.
type Client struct {
	cfg               *config.Config
	parallelDocuments int
}

// NewClientParams defines the configuration parameters for creating a
// new Client.
//
// Config carries all scoring thresholds and rule tables; nil selects the
// defaults. ParallelDocuments controls how many documents the extraction
// stage processes concurrently.
type NewClientParams struct {
	Config            *config.Config
	ParallelDocuments int
}

// NewClient creates and returns a new Client configured with the
// provided parameters.
//
// Example:
//
//	client, err := discovery.NewClient(discovery.NewClientParams{
//		ParallelDocuments: 4,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	run, err := client.Discover(ctx, docs)
//
// When the application has not installed logging backends via logger.Init,
// NewClient installs a console backend; RELGRAPH_DEBUG=true lowers its
// level to DEBUG.
func NewClient(params NewClientParams) (*Client, error) {
	if !logger.Initialized() {
		logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
			Debug: util.GetEnvBool("RELGRAPH_DEBUG", false),
		}))
	}

	cfg := params.Config
	if cfg == nil {
		cfg = config.Default()
	}
	parallel := params.ParallelDocuments
	if parallel <= 0 {
		parallel = 4
	}
	return &Client{
		cfg:               cfg,
		parallelDocuments: parallel,
	}, nil
}
