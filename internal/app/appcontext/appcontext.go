package appcontext

const (
	// EnvServer serves HTTP and, unless disabled, runs the recompute worker.
	EnvServer Env = iota
	// EnvWorker only runs the recompute worker.
	EnvWorker
	// EnvCLI runs one-shot commands; no server and no background worker.
	EnvCLI
)

type Env int

func (e Env) String() string {
	switch e {
	case EnvServer:
		return "server"
	case EnvWorker:
		return "worker"
	case EnvCLI:
		return "cli"
	}
	return "unknown"
}

type Ctx struct {
	Env Env
}

func Declare(env Env) Ctx {
	return Ctx{
		Env: env,
	}
}
