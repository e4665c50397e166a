// Package alarm implements the gRPC transport of the alarm clock.
//
// The alarmclock.v1.AlarmClock service is described by a hand-registered
// grpc.ServiceDesc whose messages are protobuf well-known types: alarms and
// settings travel as google.protobuf.Struct documents with the same JSON
// field names the storage layer uses. The package holds the server that
// adapts those messages to the alarm registry and a matching client.
package alarm
