package magicerr

// Action names the pipeline an error came from.
type Action int8

const (
	Unknown Action = iota
	Encode
	Decode
	Generate
	Store
)

func (a Action) String() string {
	actions := map[Action]string{
		Unknown:  "unknown",
		Encode:   "encode",
		Decode:   "decode",
		Generate: "generate",
		Store:    "store",
	}

	if str, ok := actions[a]; ok {
		return str
	}
	return "unknown"
}
