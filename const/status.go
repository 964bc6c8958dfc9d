package _const

// RunStatus 单次执行的状态
type RunStatus int

const (
	RunStatusRunning RunStatus = 0x00000001 // 执行中
	RunStatusSuccess RunStatus = 0x00000002 // 执行成功
	RunStatusFailed  RunStatus = 0x00000003 // 执行失败
)

func (s RunStatus) String() string {
	switch s {
	case RunStatusRunning:
		return "Running"
	case RunStatusSuccess:
		return "Success"
	case RunStatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
