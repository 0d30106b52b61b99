package api

import "time"

// MsgType is a message type for streaming run events
type MsgType string

const (
	StartRunMsg    MsgType = "run_start"
	StartCheckMsg  MsgType = "check_start"
	FinishCheckMsg MsgType = "check_finish"
	FinishRunMsg   MsgType = "run_finish"
)

// Check output size constraints for streaming
const (
	MaxCheckDataHeight = 40
	MaxCheckDataWidth  = 80
)

// Header is the common header for all streaming messages
type Header struct {
	RunUuid string  `json:"run_uuid"`
	MsgType MsgType `json:"msg_type"`
}

// StartRun message sent before the first check
type StartRun struct {
	Header
	BaseUrl     string `json:"base_url"`
	ChecksTotal int    `json:"checks_total"`
	StartedTime string `json:"started_time"`
}

// StartCheck message sent when a check begins
type StartCheck struct {
	Header
	Index int    `json:"index"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
}

// FinishCheck message sent when a check completes
type FinishCheck struct {
	Header
	Index int        `json:"index"`
	Name  string     `json:"name"`
	Data  *CheckData `json:"data"`
}

// FinishRun message sent after the last check
type FinishRun struct {
	Header
	Status      RunStatus `json:"status"`
	TestsRun    int       `json:"tests_run"`
	TestsPassed int       `json:"tests_passed"`
	SuccessRate float64   `json:"success_rate"`
}

func NewHeader(runUuid string, msgType MsgType) Header {
	return Header{
		RunUuid: runUuid,
		MsgType: msgType,
	}
}

func NewStartRun(runUuid, baseUrl string, checksTotal int) StartRun {
	return StartRun{
		Header:      NewHeader(runUuid, StartRunMsg),
		BaseUrl:     baseUrl,
		ChecksTotal: checksTotal,
		StartedTime: time.Now().Format(time.RFC3339),
	}
}

func NewStartCheck(runUuid string, index int, name, kind string) StartCheck {
	return StartCheck{
		Header: NewHeader(runUuid, StartCheckMsg),
		Index:  index,
		Name:   name,
		Kind:   kind,
	}
}

func NewFinishCheck(runUuid string, index int, name string, data *CheckData) FinishCheck {
	return FinishCheck{
		Header: NewHeader(runUuid, FinishCheckMsg),
		Index:  index,
		Name:   name,
		Data:   data,
	}
}

func NewFinishRun(runUuid string, status RunStatus, run, passed int, rate float64) FinishRun {
	return FinishRun{
		Header:      NewHeader(runUuid, FinishRunMsg),
		Status:      status,
		TestsRun:    run,
		TestsPassed: passed,
		SuccessRate: rate,
	}
}
