package login

import (
	"context"
	"fmt"

	"sessionprobe/pkg/bus"
	"sessionprobe/pkg/reply"
)

type fakeSession struct {
	id    string
	props map[string]reply.Node

	// reply and err override the GetAll answer when set
	reply *reply.Node
	err   error

	// onGetAll runs when the session's properties are requested
	onGetAll func()
}

type FakeManager struct {
	sessions []fakeSession
	listErr  error
	list     *reply.Node

	requests []bus.Request
}

func session(id, name, kind string) fakeSession {
	return fakeSession{
		id: id,
		props: map[string]reply.Node{
			"Id":     reply.NewString(id),
			"Name":   reply.NewString(name),
			"Type":   reply.NewString(kind),
			"User":   reply.NewStruct(reply.NewOther(uint32(1000)), reply.NewObjectPath("/org/freedesktop/login1/user/_1000")),
			"Active": reply.NewOther(true),
		},
	}
}

func sessionPath(id string) string {
	return "/org/freedesktop/login1/session/" + id
}

func (m *FakeManager) Call(ctx context.Context, req bus.Request) (reply.Node, error) {
	m.requests = append(m.requests, req)

	switch {
	case req.Interface == ManagerInterface && req.Method == "ListSessions":
		if m.listErr != nil {
			return reply.Node{}, m.listErr
		}
		if m.list != nil {
			return *m.list, nil
		}
		records := make([]reply.Node, 0, len(m.sessions))
		for _, s := range m.sessions {
			records = append(records, reply.NewStruct(
				reply.NewString(s.id),
				reply.NewOther(uint32(1000)),
				reply.NewString("user-"+s.id),
				reply.NewString("seat0"),
				reply.NewObjectPath(sessionPath(s.id)),
			))
		}
		return reply.NewArray(records...), nil

	case req.Interface == PropertiesInterface && req.Method == "GetAll":
		if len(req.Args) != 1 || req.Args[0] != SessionInterface {
			return reply.Node{}, fmt.Errorf("unexpected GetAll args %v", req.Args)
		}
		for _, s := range m.sessions {
			if sessionPath(s.id) != req.Path {
				continue
			}
			if s.onGetAll != nil {
				s.onGetAll()
			}
			if s.err != nil {
				return reply.Node{}, s.err
			}
			if s.reply != nil {
				return *s.reply, nil
			}
			entries := make([]reply.Node, 0, len(s.props))
			for k, v := range s.props {
				entries = append(entries, reply.NewEntry(reply.NewString(k), reply.NewVariant(v)))
			}
			return reply.NewArray(entries...), nil
		}
		return reply.Node{}, fmt.Errorf("org.freedesktop.DBus.Error.UnknownObject: %s", req.Path)
	}

	return reply.Node{}, fmt.Errorf("org.freedesktop.DBus.Error.UnknownMethod: %s.%s", req.Interface, req.Method)
}

func (m *FakeManager) getAllCalls() []string {
	var paths []string
	for _, r := range m.requests {
		if r.Method == "GetAll" {
			paths = append(paths, r.Path)
		}
	}
	return paths
}
