package sql

import (
	"reflect"
	"testing"
)

func TestQueryCmd(t *testing.T) {
	cmdTests := []struct {
		q        Query
		wantCmd  string
		wantArgs []interface{}
	}{
		{
			q:        NewQueryFunction("user_read", []string{"username", "password", "points"}, "selene"),
			wantCmd:  "SELECT username, password, points FROM user_read($1)",
			wantArgs: []interface{}{"selene"},
		},
		{
			q:        NewExecFunction("user_update_points_increment", "selene", 10),
			wantCmd:  "SELECT user_update_points_increment($1, $2)",
			wantArgs: []interface{}{"selene", 10},
		},
		{
			q:        NewExecFunction("user_delete", "selene"),
			wantCmd:  "SELECT user_delete($1)",
			wantArgs: []interface{}{"selene"},
		},
		{
			q:       RawQuery("CREATE TABLE users ();"),
			wantCmd: "CREATE TABLE users ();",
		},
	}
	for i, test := range cmdTests {
		switch {
		case test.wantCmd != test.q.Cmd():
			t.Errorf("Test %v: commands not equal:\nwanted: %q\ngot:    %q", i, test.wantCmd, test.q.Cmd())
		case !reflect.DeepEqual(test.wantArgs, test.q.Args()):
			t.Errorf("Test %v: args not equal:\nwanted: %v\ngot:    %v", i, test.wantArgs, test.q.Args())
		}
	}
}
