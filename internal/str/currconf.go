//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

import "time"

type PostgresLogin struct {
	Host   string
	Port   int
	User   string
	Pass   string
	DBName string
}

// CurrentConfiguration - the values that control a run; set at launch from defaults, the JSON config, and the CLI
type CurrentConfiguration struct {
	BlackAndWhite bool
	ChartDir      string
	ChartHeight   string
	ChartWidth    string
	EchoLog       int // 0: nothing; 1: terse; 2: requests; 3: full echo output
	Gzip          bool
	HostIP        string
	HostPort      int
	LogLevel      int
	PGLogin       PostgresLogin
	ProfileCPU    bool
	ProfileMEM    bool
	PubMedQuery   string
	QuietStart    bool
	ResetCache    bool
	RetMax        int
	Seed          uint64
	Sweep         SweepConfig
	TimeBudget    time.Duration
	WebUI         bool
	WorkerCount   int
}

// SweepConfig - the candidate sweep parameters handed to the selector
type SweepConfig struct {
	Candidates     []int
	BurnIn         int
	Iterations     int
	SampleInterval int
}
