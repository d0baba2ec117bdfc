/*
 * Copyright 2025 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package avlset_test

import (
	"fmt"

	"github.com/cloudwego/memkit/container/avlset"
)

func Example() {
	s := avlset.New[int]()
	for _, v := range []int{30, 10, 20, 10} {
		s.Insert(v)
	}

	for it := s.First(); it.Valid(); it = it.Next() {
		fmt.Println(it.Value())
	}
	fmt.Println("len:", s.Len())

	// Output:
	// 10
	// 10
	// 20
	// 30
	// len: 4
}
